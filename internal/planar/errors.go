package planar

import "errors"

// ErrorKind classifies a failed operation.
type ErrorKind int

const (
	// KindNone is returned by KindOf for a nil error.
	KindNone ErrorKind = iota
	// KindNotInitialized: lookup tables not built, or an image without a layout.
	KindNotInitialized
	// KindNullArgument: a nil image was passed (debug builds only).
	KindNullArgument
	// KindPrecondition: format, dimension or flag mismatch (debug builds only).
	KindPrecondition
	// KindAllocation: scratch memory could not be allocated.
	KindAllocation
	// KindAborted: the progress callback asked to stop.
	KindAborted
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotInitialized:
		return "not initialized"
	case KindNullArgument:
		return "null argument"
	case KindPrecondition:
		return "precondition violated"
	case KindAllocation:
		return "allocation failed"
	case KindAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrNotInitialized = errors.New("not initialized")
	ErrNullArgument   = errors.New("null argument")
	ErrPrecondition   = errors.New("precondition violated")
	ErrAllocation     = errors.New("allocation failed")
	ErrAborted        = errors.New("aborted by progress callback")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNotInitialized:
		return ErrNotInitialized
	case KindNullArgument:
		return ErrNullArgument
	case KindPrecondition:
		return ErrPrecondition
	case KindAllocation:
		return ErrAllocation
	case KindAborted:
		return ErrAborted
	}
	return nil
}

// Error is returned by every operation in this module. Op names the stage
// that failed; Err carries the failure of a nested stage, if any.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	s := e.Op
	if e.Msg != "" {
		if s != "" {
			s += ": "
		}
		s += e.Msg
	}
	if e.Err != nil {
		if s != "" {
			s += ": "
		}
		s += e.Err.Error()
	}
	if s == "" {
		s = e.Kind.String()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of the innermost *Error in err's chain that sets
// one. Errors from outside this module report KindPrecondition.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPrecondition
}

// NewError returns an *Error of the given kind.
func NewError(kind ErrorKind, op, msg string) error {
	return newError(kind, op, msg)
}

// Wrap attaches op to a nested failure, keeping its kind.
func Wrap(op string, err error) error {
	return wrap(op, err)
}

func newError(kind ErrorKind, op, msg string) error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindOf(err), Op: op, Err: err}
}
