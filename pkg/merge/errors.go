package merge

import (
	"errors"
	"fmt"
)

// End names the side of a file a skip applies to.
type End int

const (
	EndNone End = iota
	EndHead
	EndTail
)

func (e End) String() string {
	switch e {
	case EndHead:
		return "head"
	case EndTail:
		return "tail"
	}
	return "none"
}

// Kind classifies merge failures.
type Kind int

const (
	KindIO                  Kind = iota + 1 // read, seek or write failure
	KindInsufficientContent                 // skip count exceeds what a file holds
	KindEmptyInput                          // nothing to merge
	KindInvalidOptions                      // options rejected before any I/O
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io failure"
	case KindInsufficientContent:
		return "insufficient content"
	case KindEmptyInput:
		return "empty input"
	case KindInvalidOptions:
		return "invalid options"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrInsufficientContent = errors.New("insufficient content")
	ErrEmptyInput          = errors.New("no files to merge")
	ErrInvalidOptions      = errors.New("invalid options")
)

// Error is the failure returned by a merge run.
type Error struct {
	Kind   Kind
	Path   string // file being processed, empty when not file specific
	End    End    // side that could not be trimmed, for KindInsufficientContent
	Offset int64  // bytes produced before the failure
	Err    error  // underlying cause
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInsufficientContent:
		return fmt.Sprintf("%s: cannot skip from %s: %v", e.Path, e.End, e.Err)
	case KindEmptyInput:
		return ErrEmptyInput.Error()
	case KindInvalidOptions:
		return e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel that corresponds to e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInsufficientContent:
		return e.Kind == KindInsufficientContent
	case ErrEmptyInput:
		return e.Kind == KindEmptyInput
	case ErrInvalidOptions:
		return e.Kind == KindInvalidOptions
	}
	return false
}

// KindOf returns the Kind of err, or 0 when err is not a merge error.
func KindOf(err error) Kind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return 0
}

func invalidOptions(format string, args ...any) error {
	return &Error{Kind: KindInvalidOptions, Err: fmt.Errorf("%w: "+format, append([]any{ErrInvalidOptions}, args...)...)}
}

func insufficient(path string, end End, format string, args ...any) error {
	return &Error{Kind: KindInsufficientContent, Path: path, End: end, Err: fmt.Errorf(format, args...)}
}

func ioFailure(path string, err error) error {
	return &Error{Kind: KindIO, Path: path, Err: err}
}
