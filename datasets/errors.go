package datasets

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConstruction is matched by errors returned when a dataset root can't be listed.
	ErrConstruction = errors.New("faces dataset construction failed")

	// ErrIndexOutOfRange is matched by errors for indices outside [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrDecode is matched by errors opening or decoding an image file.
	ErrDecode = errors.New("failed to decode image")
)

// ClassDirError reports a class sub-directory that is missing or unreadable.
type ClassDirError struct {
	Dir string
	Err error
}

func (e *ClassDirError) Error() string {
	return fmt.Sprintf("listing class directory %q: %v", e.Dir, e.Err)
}

func (e *ClassDirError) Unwrap() error { return e.Err }

func (e *ClassDirError) Is(target error) bool { return target == ErrConstruction }

// DecodeError reports an image that could not be opened or decoded.
type DecodeError struct {
	Path  string
	Label Label
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("reading %s image %q: %v", e.Label, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
