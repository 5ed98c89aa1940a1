package git

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	dserrors "dotsync.dev/dotsync/internal/errors"
)

// Allowed porcelain codes for each axis
const (
	indexStates = "MADRU? "
	treeStates  = "MADU "
)

const nul = 0

// step consumes a prefix of its input and returns the decoded value and the rest.
type step[T any] func(in []byte) (T, []byte, error)

// oneOf accepts a single byte from set.
func oneOf(set, what string) step[byte] {
	return func(in []byte) (byte, []byte, error) {
		if len(in) == 0 {
			return 0, in, fmt.Errorf("unexpected end of input reading %s", what)
		}
		if strings.IndexByte(set, in[0]) < 0 {
			return 0, in, fmt.Errorf("invalid %s %q", what, in[0])
		}
		return in[0], in[1:], nil
	}
}

// literal accepts exactly b.
func literal(b byte, what string) step[byte] {
	return oneOf(string([]byte{b}), what)
}

// token reads a non-empty NUL-terminated path and consumes the terminator.
// The returned string is a copy, it never aliases the input buffer.
func token(what string) step[string] {
	return func(in []byte) (string, []byte, error) {
		i := bytes.IndexByte(in, nul)
		if i < 0 {
			return "", in, fmt.Errorf("%s is not NUL terminated", what)
		}
		if i == 0 {
			return "", in, fmt.Errorf("empty %s", what)
		}
		return string(in[:i]), in[i+1:], nil
	}
}

var (
	parseIndexState = oneOf(indexStates, "index state")
	parseTreeState  = oneOf(treeStates, "tree state")
	parseUntracked  = oneOf(treeStates+string(StateUntracked), "tree state")
	parseSeparator  = literal(' ', "separator")
	parseFromPath   = token("path")
	// parseToPath reads the second path of a rename record. Real git -z output
	// puts the destination first and the source second; FromPath and ToPath
	// keep the record order, and EffectivePath callers rely on that.
	parseToPath = token("rename target")
)

type statusParser struct {
	total int
}

func (p statusParser) fail(at []byte, err error) error {
	return dserrors.NewParseError(p.total-len(at), err.Error())
}

// record decodes one entry: index state, tree state, a space, the path, and
// for renames a second path.
func (p statusParser) record(in []byte) (StatusEntry, []byte, error) {
	var e StatusEntry
	var err error
	rest := in

	if e.IndexState, rest, err = parseIndexState(rest); err != nil {
		return e, in, p.fail(rest, err)
	}

	// '?' in the tree column is only valid after an untracked index state.
	tree := parseTreeState
	if e.IndexState == StateUntracked {
		tree = parseUntracked
	}
	if e.TreeState, rest, err = tree(rest); err != nil {
		return e, in, p.fail(rest, err)
	}

	if _, rest, err = parseSeparator(rest); err != nil {
		return e, in, p.fail(rest, err)
	}

	if e.FromPath, rest, err = parseFromPath(rest); err != nil {
		return e, in, p.fail(rest, err)
	}

	if e.IndexState == StateRenamed {
		if e.ToPath, rest, err = parseToPath(rest); err != nil {
			return e, in, p.fail(rest, err)
		}
	}

	return e, rest, nil
}

// ParseStatus decodes the output of `git status --porcelain -z`.
//
// The result is all-or-nothing: on any malformed record no entries are
// returned. Empty input is a clean tree.
func ParseStatus(raw []byte) ([]StatusEntry, error) {
	p := statusParser{total: len(raw)}
	entries := []StatusEntry{}

	rest := raw
	for len(rest) > 1 {
		entry, next, err := p.record(rest)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		rest = next
	}

	if len(rest) == 1 && rest[0] != nul {
		return nil, p.fail(rest, errors.New("trailing data after last record"))
	}

	return entries, nil
}
