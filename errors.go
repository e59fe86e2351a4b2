package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies gallery errors
type ErrorKind int

const (
	KindInvalidConstruction ErrorKind = iota + 1
	KindOutOfRange
	KindInvalidTransitionState
)

// Sentinel errors, one per kind, for use with errors.Is
var (
	ErrInvalidConstruction    = errors.New("invalid construction")
	ErrOutOfRange             = errors.New("page index out of range")
	ErrInvalidTransitionState = errors.New("invalid transition state")
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidConstruction:
		return "invalid_construction"
	case KindOutOfRange:
		return "out_of_range"
	case KindInvalidTransitionState:
		return "invalid_transition_state"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidConstruction:
		return ErrInvalidConstruction
	case KindOutOfRange:
		return ErrOutOfRange
	case KindInvalidTransitionState:
		return ErrInvalidTransitionState
	default:
		return nil
	}
}

// GalleryError carries the kind, the failing operation and an optional cause.
// All of these are programmer errors; none are shown to the user.
type GalleryError struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *GalleryError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		if s := e.Kind.sentinel(); s != nil {
			msg = s.Error()
		}
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *GalleryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel error of the same kind
func (e *GalleryError) Is(target error) bool {
	if e == nil {
		return false
	}
	return target == e.Kind.sentinel()
}

func newGalleryError(kind ErrorKind, op, format string, args ...any) error {
	return &GalleryError{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// errorKindOf returns the kind of a gallery error anywhere in err's chain
func errorKindOf(err error) (ErrorKind, bool) {
	var ge *GalleryError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return 0, false
}
