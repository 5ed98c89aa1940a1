package cli

import (
	"errors"

	dserrors "dotsync.dev/dotsync/internal/errors"
	"dotsync.dev/dotsync/internal/sync"
)

// Process exit codes
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitNoRepository    = 2
	ExitStatus          = 3
	ExitAdd             = 4
	ExitCommit          = 5
	ExitPull            = 6
	ExitSubmoduleInit   = 7
	ExitSubmoduleUpdate = 8
	ExitPush            = 9
)

var stageExitCodes = map[sync.Stage]int{
	sync.StageStatus:          ExitStatus,
	sync.StageRestatus:        ExitStatus,
	sync.StageAdd:             ExitAdd,
	sync.StageCommit:          ExitCommit,
	sync.StagePull:            ExitPull,
	sync.StageSubmoduleInit:   ExitSubmoduleInit,
	sync.StageSubmoduleUpdate: ExitSubmoduleUpdate,
	sync.StagePush:            ExitPush,
}

// ExitCode maps an error returned by a command to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var stageErr *sync.StageError
	if errors.As(err, &stageErr) {
		if code, ok := stageExitCodes[stageErr.Stage]; ok {
			return code
		}
		return ExitFailure
	}

	var cfgErr *configError
	if errors.Is(err, dserrors.ErrNoRepository) || errors.As(err, &cfgErr) {
		return ExitNoRepository
	}
	return ExitFailure
}
