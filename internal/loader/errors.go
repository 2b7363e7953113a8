package loader

import "fmt"

// ErrorKind classifies input validation failures.
type ErrorKind int

const (
	KindInvalidFileFormat ErrorKind = iota + 1
	KindInvalidFileContents
	KindUnreadableFile
	KindInvalidCapacity
	KindInvalidAlgorithm
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidFileFormat:
		return "invalid file format"
	case KindInvalidFileContents:
		return "invalid file contents"
	case KindUnreadableFile:
		return "unreadable file"
	case KindInvalidCapacity:
		return "invalid capacity"
	case KindInvalidAlgorithm:
		return "invalid algorithm"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error describes why input could not be turned into items or run parameters.
// Line is the 1-based line number for file content errors and zero otherwise.
type Error struct {
	Kind ErrorKind
	Line int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind so callers can use errors.Is with a bare kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind && other.Line == 0 && other.Err == nil
}

var (
	// ErrInvalidFileFormat matches errors about a non-CSV input path.
	ErrInvalidFileFormat = &Error{Kind: KindInvalidFileFormat}
	// ErrInvalidFileContents matches errors about malformed item rows.
	ErrInvalidFileContents = &Error{Kind: KindInvalidFileContents}
	// ErrUnreadableFile matches errors opening or reading the input file.
	ErrUnreadableFile = &Error{Kind: KindUnreadableFile}
	// ErrInvalidCapacity matches errors parsing the knapsack capacity.
	ErrInvalidCapacity = &Error{Kind: KindInvalidCapacity}
	// ErrInvalidAlgorithm matches errors selecting an algorithm.
	ErrInvalidAlgorithm = &Error{Kind: KindInvalidAlgorithm}
)
