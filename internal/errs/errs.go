// Package errs defines the typed error taxonomy shared by every lusush
// front-end subsystem (buffer, history, screen, event bus, tokenizer, ...).
//
// Replaces the variadic error_return/error_syscall/error_quit style of
// the source this spec was distilled from with a single comparable Kind
// plus a formatted message and optional source location.
package errs

import (
	"fmt"
	"os"
)

// Kind identifies a stable error category. Code identifiers built on top
// of Kind are an implementation concern; Kind itself is part of the
// public contract every package returns against.
type Kind uint8

const (
	_ Kind = iota
	InvalidParameter
	NullPointer
	OutOfRange
	NotInitialized
	InvalidState
	OutOfMemory
	InvalidEncoding
	BufferOverflow
	QueueFull
	MaxSubscribers
	SubscriberNotFound
	DisplayFailed
	StateDivergence
	Timeout
	BufferExists
	MaxBuffers
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "invalid_parameter"
	case NullPointer:
		return "null_pointer"
	case OutOfRange:
		return "invalid_range"
	case NotInitialized:
		return "not_initialized"
	case InvalidState:
		return "invalid_state"
	case OutOfMemory:
		return "out_of_memory"
	case InvalidEncoding:
		return "invalid_encoding"
	case BufferOverflow:
		return "buffer_overflow"
	case QueueFull:
		return "queue_full"
	case MaxSubscribers:
		return "max_subscribers"
	case SubscriberNotFound:
		return "subscriber_not_found"
	case DisplayFailed:
		return "display_failed"
	case StateDivergence:
		return "state_divergence"
	case Timeout:
		return "timeout"
	case BufferExists:
		return "buffer_exists"
	case MaxBuffers:
		return "max_buffers"
	default:
		return "unknown"
	}
}

// Error is the concrete error value every subsystem returns. It carries
// the stable Kind, a human message, and an optional "component:function"
// source location for logs.
type Error struct {
	kind    Kind
	Message string
	Source  string
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.Message)
}

// Kind returns e's error category, for errors.As(err, &target) callers
// that want to branch on it directly rather than going through KindOf.
func (e *Error) Kind() Kind {
	return e.kind
}

// New builds an Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At attaches a source location, e.g. At("history.Add").
func (e *Error) At(source string) *Error {
	e.Source = source
	return e
}

// KindOf reports the Kind of err and whether err is an *Error at all,
// so callers can write errors.As(err, &target)-style checks without a
// type assertion of their own.
func KindOf(err error) (Kind, bool) {
	if e, ok := err.(*Error); ok {
		return e.kind, true
	}
	return 0, false
}

// Recoverable reports whether err's kind is handled locally (mark dirty,
// force resync, retry next turn) per spec §7's propagation policy,
// rather than surfaced to the user.
func Recoverable(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	switch k {
	case DisplayFailed, StateDivergence, Timeout, QueueFull, SubscriberNotFound:
		return true
	default:
		return false
	}
}

// Terminator stops the process after a fatal, unrecoverable error
// (catastrophic OOM, unrecoverable terminal write failure). Tests
// replace it with a non-exiting stub.
type Terminator func(code int)

// Fatal logs err via report and invokes term, defaulting term to a
// process exit with status 1 when nil.
func Fatal(err error, report func(error), term Terminator) {
	if report != nil {
		report(err)
	}
	if term == nil {
		term = os.Exit
	}
	term(1)
}
