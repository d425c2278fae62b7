package snapshot

import (
	"fmt"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

// CorruptError reports a snapshot that cannot be decoded.
type CorruptError struct {
	Off int // byte offset where decoding stopped, -1 if unknown
	Msg string
	Err error
}

func corruptf(off int, err error, format string, args ...any) error {
	return &CorruptError{Off: off, Err: err, Msg: fmt.Sprintf(format, args...)}
}

func (e *CorruptError) Error() string {
	s := types.ErrCorruptSnapshot.Error()
	if e.Off >= 0 {
		s += fmt.Sprintf(" at offset %d", e.Off)
	}
	s += ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Is makes every CorruptError match types.ErrCorruptSnapshot.
func (e *CorruptError) Is(target error) bool {
	return target == types.ErrCorruptSnapshot
}
