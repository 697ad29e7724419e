package qa

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "internal"
}

// Error is returned by every Service operation that fails for a reason the
// caller can act on. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation builds a 400-class error with a client-facing message.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrUnauthenticated     = newError(KindAuthentication, "Not authorized to access this route")
	ErrInvalidCredentials  = newError(KindAuthentication, "Invalid credentials")
	ErrWrongPassword       = newError(KindAuthentication, "Current password is incorrect")
	ErrInvalidVoteType     = newError(KindValidation, "Please provide a valid vote type (upvote or downvote)")
	ErrQuestionNotFound    = newError(KindNotFound, "Question not found")
	ErrAnswerNotFound      = newError(KindNotFound, "Answer not found")
	ErrUserNotFound        = newError(KindNotFound, "User not found")
	ErrNotificationMissing = newError(KindNotFound, "Notification not found")
	ErrNotQuestionAuthor   = newError(KindAuthorization, "Only the question author can accept answers")
	ErrAccountExists       = newError(KindConflict, "User already exists with this email or username")
	ErrAcceptConflict      = newError(KindConflict, "The accepted answer changed concurrently, please retry")
	ErrVoteConflict        = newError(KindConflict, "Vote could not be recorded, please retry")
)

// forbidden builds the "not authorized to <action>" error used by update and
// delete paths.
func forbidden(action string) error {
	return newError(KindAuthorization, "Not authorized to "+action)
}
