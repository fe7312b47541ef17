package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Common errors (1xxx)
	ErrInvalidParam    = New(1001, "invalid parameter")
	ErrInternalServer  = New(1002, "internal server error")
	ErrUnauthorized    = New(1003, "unauthorized")
	ErrForbidden       = New(1004, "forbidden")
	ErrNotFound        = New(1005, "not found")
	ErrTooManyRequests = New(1006, "too many requests")
	ErrNoPermission    = New(1007, "no permission to access this resource")

	// Identity errors (2xxx)
	ErrTokenInvalid = New(2001, "token invalid")
	ErrTokenExpired = New(2002, "token expired")
	ErrTokenMissing = New(2003, "token missing")
	ErrUserNotFound = New(2004, "user not found")

	// Conversation errors (3xxx)
	ErrConvNotFound      = New(3001, "conversation not found")
	ErrNotParticipant    = New(3002, "not a conversation participant")
	ErrConvArchived      = New(3003, "conversation is archived")
	ErrSelfConversation  = New(3004, "cannot start a direct conversation with yourself")
	ErrTeamNotFound      = New(3005, "team not found")
	ErrNotTeamMember     = New(3006, "not a team member")
	ErrAlreadyTeamMember = New(3007, "already a team member")

	// Message errors (4xxx)
	ErrMessageNotFound = New(4001, "message not found")
	ErrEmptyContent    = New(4002, "message content is empty")
	ErrContentTooLong  = New(4003, "message content too long")
	ErrNotSender       = New(4004, "not the message sender")
	ErrSendFailed      = New(4005, "message send failed")

	// Stream errors (5xxx)
	ErrConnOverLimit   = New(5001, "connection over max limit")
	ErrConnClosed      = New(5002, "connection closed")
	ErrInvalidProtocol = New(5003, "invalid protocol")
	ErrPushFailed      = New(5004, "push event failed")

	// Schedule errors (6xxx)
	ErrEntryNotFound   = New(6001, "entry not found")
	ErrInvalidDateSpan = New(6002, "end date before start date")
	ErrEntryOverlap    = New(6003, "entry overlaps an existing one")
	ErrNotEntryOwner   = New(6004, "not the entry owner")
)
