package bftw

import (
	"syscall"

	"github.com/pkg/errors"
)

// Error is the error type delivered through an Entry's Err field (see
// spec.md §6.2, §7). It always carries an underlying errno, wrapped with
// enough context to tell a human which operation against which path failed.
type Error struct {
	// Op is the syscall-level operation that failed: "open", "stat",
	// "openat", "readdir", "close".
	Op string
	// Path is the path being operated on, or as close as one could be
	// reconstructed (see bftw/path.go).
	Path string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// wrapErr wraps err, which must have originated from a syscall against
// path during op, into an *Error with stack context attached via
// github.com/pkg/errors, the way the teacher wraps SDK errors before they
// reach a caller.
func wrapErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Path: path, Err: errors.Wrapf(err, "%s %s", op, path)}
}

// errno extracts the underlying syscall.Errno from err, unwrapping any
// *Error and github.com/pkg/errors wrapping in between. It returns 0 if err
// is nil or doesn't bottom out in an errno.
func errno(err error) syscall.Errno {
	if err == nil {
		return 0
	}
	cause := errors.Cause(err)
	var bftwErr *Error
	if errors.As(cause, &bftwErr) {
		cause = errors.Cause(bftwErr.Err)
	}
	if errno, ok := cause.(syscall.Errno); ok {
		return errno
	}
	var errnoer interface{ Errno() syscall.Errno }
	if errors.As(err, &errnoer) {
		return errnoer.Errno()
	}
	return 0
}

// isENAMETOOLONG reports whether err bottoms out in ENAMETOOLONG, the
// trigger for the component-by-component reopen fallback in
// bftw/cache.go's openRelativeDir (see SPEC_FULL.md §12).
func isENAMETOOLONG(err error) bool {
	return errno(err) == syscall.ENAMETOOLONG
}

// isELOOP reports whether err bottoms out in ELOOP, used both for genuine
// symlink loops reported by the kernel and for the synthetic cycle errors
// this package raises from DETECT_CYCLES (spec.md §8 property 7).
func isELOOP(err error) bool {
	return errno(err) == syscall.ELOOP
}

// isENOENT reports whether err bottoms out in ENOENT, the common "file
// vanished out from under us" race (spec.md §7 taxonomy).
func isENOENT(err error) bool {
	return errno(err) == syscall.ENOENT
}
