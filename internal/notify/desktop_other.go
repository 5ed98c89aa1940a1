//go:build !linux && !darwin

package notify

// platformCommand reports that no notification command is available
func platformCommand(string, string) (string, []string) {
	return "", nil
}
