package domain

import "errors"

// Kind classifies a domain error so callers can tell "doesn't exist" apart
// from "forbidden" and from "wrong lifecycle state".
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindInvalidState     Kind = "invalid_state"
	KindConflict         Kind = "conflict"
	KindValidation       Kind = "validation_error"
	KindUnauthenticated  Kind = "unauthenticated"
)

// Error is a recoverable domain error. Code is stable and doubles as the
// i18n message ID for the user-facing reason.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Domain errors.
var (
	ErrUserNotFound          = newError(KindNotFound, "user_not_found", "user not found")
	ErrEventNotFound         = newError(KindNotFound, "event_not_found", "event not found")
	ErrPollNotFound          = newError(KindNotFound, "poll_not_found", "poll not found")
	ErrAnswerOptionNotFound  = newError(KindNotFound, "answer_option_not_found", "answer option not found")
	ErrAnswerNotFound        = newError(KindNotFound, "answer_not_found", "answer not found")
	ErrGivenByUserNotFound   = newError(KindNotFound, "given_by_user_not_found", "user passed as given_by_id was not found")
	ErrReceivedByNotFound    = newError(KindNotFound, "received_by_user_not_found", "user passed as received_by_id was not found")
	ErrNotEnoughPermissions  = newError(KindPermissionDenied, "not_enough_permissions", "not enough permissions")
	ErrNotEventAdmin         = newError(KindPermissionDenied, "not_event_admin", "only the event owner can perform this action")
	ErrNotPollOwner          = newError(KindPermissionDenied, "not_poll_owner", "only the poll owner can perform this action")
	ErrSuperuserRequired     = newError(KindPermissionDenied, "superuser_required", "superuser privileges are required")
	ErrPollNotRunning        = newError(KindInvalidState, "poll_not_running", "you can only vote in an active poll")
	ErrPollRunning           = newError(KindInvalidState, "poll_running", "answer options cannot change while the poll is running")
	ErrAlreadyParticipant    = newError(KindConflict, "already_participant", "user is already a participant")
	ErrAlreadyModerator      = newError(KindConflict, "already_moderator", "user is already a moderator")
	ErrAnswerExists          = newError(KindConflict, "answer_exists", "you have already submitted your answer to this poll")
	ErrEmailTaken            = newError(KindConflict, "email_taken", "a user with this email already exists")
	ErrAnswerOptionInUse     = newError(KindConflict, "answer_option_in_use", "there are answers with this option, delete them first")
	ErrStopAtRequired        = newError(KindValidation, "stop_at_required", "stop_at is required when starting a poll")
	ErrStopAtInPast          = newError(KindValidation, "stop_at_in_past", "stop_at must be in the future")
	ErrInvalidModeratorKind  = newError(KindValidation, "invalid_moderator_kind", "moderator type is specified incorrectly")
	ErrOptionNotInPoll       = newError(KindValidation, "option_not_in_poll", "answer option does not belong to this poll")
	ErrMissingField          = newError(KindValidation, "missing_field", "a required field is missing")
	ErrInvalidCredentials    = newError(KindUnauthenticated, "invalid_credentials", "incorrect email or password")
	ErrInactiveUser          = newError(KindUnauthenticated, "inactive_user", "inactive user")
	ErrInvalidToken          = newError(KindUnauthenticated, "invalid_token", "could not validate credentials")
)

// Code returns the stable code of the first domain error in err's chain, or "".
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// KindOf returns the kind of the first domain error in err's chain, or "".
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
