package sdk

import "fmt"

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Common error codes
const (
	// Success
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam    = 1001
	CodeInternalServer  = 1002
	CodeUnauthorized    = 1003
	CodeForbidden       = 1004
	CodeNotFound        = 1005
	CodeTooManyRequests = 1006
	CodeNoPermission    = 1007

	// Identity errors (2xxx)
	CodeTokenInvalid = 2001
	CodeTokenExpired = 2002
	CodeTokenMissing = 2003
	CodeUserNotFound = 2004

	// Conversation errors (3xxx)
	CodeConvNotFound      = 3001
	CodeNotParticipant    = 3002
	CodeConvArchived      = 3003
	CodeSelfConversation  = 3004
	CodeTeamNotFound      = 3005
	CodeNotTeamMember     = 3006
	CodeAlreadyTeamMember = 3007

	// Message errors (4xxx)
	CodeMessageNotFound = 4001
	CodeEmptyContent    = 4002
	CodeContentTooLong  = 4003
	CodeNotSender       = 4004
	CodeSendFailed      = 4005

	// Stream errors (5xxx)
	CodeConnOverLimit   = 5001
	CodeConnClosed      = 5002
	CodeInvalidProtocol = 5003
	CodePushFailed      = 5004

	// Schedule errors (6xxx)
	CodeEntryNotFound   = 6001
	CodeInvalidDateSpan = 6002
	CodeEntryOverlap    = 6003
	CodeNotEntryOwner   = 6004
)

// Predefined errors
var (
	ErrInvalidParam    = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer  = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized    = NewError(CodeUnauthorized, "unauthorized")
	ErrForbidden       = NewError(CodeForbidden, "forbidden")
	ErrNotFound        = NewError(CodeNotFound, "not found")
	ErrTooManyRequests = NewError(CodeTooManyRequests, "too many requests")

	ErrTokenInvalid = NewError(CodeTokenInvalid, "token invalid")
	ErrTokenExpired = NewError(CodeTokenExpired, "token expired")
	ErrTokenMissing = NewError(CodeTokenMissing, "token missing")
	ErrUserNotFound = NewError(CodeUserNotFound, "user not found")

	ErrConvNotFound     = NewError(CodeConvNotFound, "conversation not found")
	ErrNotParticipant   = NewError(CodeNotParticipant, "not a conversation participant")
	ErrSelfConversation = NewError(CodeSelfConversation, "cannot start a direct conversation with yourself")

	ErrMessageNotFound = NewError(CodeMessageNotFound, "message not found")
	ErrEmptyContent    = NewError(CodeEmptyContent, "message content is empty")
	ErrContentTooLong  = NewError(CodeContentTooLong, "message content too long")

	ErrEntryNotFound = NewError(CodeEntryNotFound, "entry not found")
	ErrEntryOverlap  = NewError(CodeEntryOverlap, "entry overlaps an existing one")
)

// IsCode reports whether err is an API error with the given code
func IsCode(err error, code int) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}
