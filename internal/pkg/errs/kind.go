package errs

import (
	"strings"

	"github.com/google/uuid"
)

// Kind discriminates every failure the contention core reports. A detected
// booking conflict is not among them: it is returned as a typed result.
type Kind string

const (
	KindValidation                  Kind = "VALIDATION"
	KindResourceNotFound            Kind = "RESOURCE_NOT_FOUND"
	KindConcurrentConflict          Kind = "CONCURRENT_CONFLICT"
	KindDuplicateWaitingListEntry   Kind = "DUPLICATE_WAITING_LIST_ENTRY"
	KindEntryExpired                Kind = "ENTRY_EXPIRED"
	KindInvalidTransition           Kind = "INVALID_TRANSITION"
	KindLockTimeout                 Kind = "LOCK_TIMEOUT"
	KindNotificationDispatchFailure Kind = "NOTIFICATION_DISPATCH_FAILURE"
)

// Retryable reports whether the caller may retry the same request unchanged.
// A concurrent conflict is not: the window is taken, and the caller has to
// detect again or pick another stay.
func (k Kind) Retryable() bool {
	return k == KindLockTimeout
}

type Error struct {
	Kind    Kind
	Msg     string
	RoomID  uuid.UUID
	EntryID uuid.UUID
	err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.RoomID != uuid.Nil {
		b.WriteString(" room=")
		b.WriteString(e.RoomID.String())
	}
	if e.EntryID != uuid.Nil {
		b.WriteString(" entry=")
		b.WriteString(e.EntryID.String())
	}
	if e.err != nil {
		b.WriteString(": ")
		b.WriteString(e.err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.err
}

func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WrapKind attaches kind to err, keeping err reachable through errors.Is/As.
func WrapKind(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, err: err}
}

func (e *Error) WithRoom(id uuid.UUID) *Error {
	e.RoomID = id
	return e
}

func (e *Error) WithEntry(id uuid.UUID) *Error {
	e.EntryID = id
	return e
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
