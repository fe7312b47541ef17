package sdk

// Response represents the standard API response
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// Collection names carried on the change stream
const (
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionTyping        = "typing"
	CollectionPresence      = "presence"
	CollectionTimeOff       = "time_off"
	CollectionTimesheets    = "timesheets"
	CollectionHolidays      = "holidays"
	CollectionMeetings      = "meetings"
)

// Change event types
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// Conversation types
const (
	ConversationDirect  = "direct"
	ConversationTeam    = "team"
	ConversationProject = "project"
)

// UserInfo represents a directory profile
type UserInfo struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	TeamId      string `json:"team_id,omitempty"`
}

// Attachment represents a message attachment
type Attachment struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Url      string `json:"url"`
}

// Reaction represents an emoji reaction on a message
type Reaction struct {
	Emoji   string   `json:"emoji"`
	UserIds []string `json:"user_ids"`
}

// MessageInfo represents a chat message
type MessageInfo struct {
	Id             string       `json:"id"`
	ConversationId string       `json:"conversation_id"`
	SenderId       string       `json:"sender_id"`
	Content        *string      `json:"content"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	Reactions      []Reaction   `json:"reactions,omitempty"`
	EditedAt       *int64       `json:"edited_at,omitempty"`
	DeletedAt      *int64       `json:"deleted_at,omitempty"`
	CreatedAt      int64        `json:"created_at"`

	// Sending marks a local optimistic entry that has not been confirmed
	// by the server yet. Never set on records coming off the wire.
	Sending bool `json:"-"`
}

// ConversationInfo represents a conversation from the caller's point of view
type ConversationInfo struct {
	ConversationId string   `json:"conversation_id"`
	Type           string   `json:"type"`
	Name           *string  `json:"name"`
	TeamId         string   `json:"team_id,omitempty"`
	PeerUserId     string   `json:"peer_user_id,omitempty"`
	LastMessage    *string  `json:"last_message"`
	LastMessageAt  int64    `json:"last_message_at"`
	UnreadCount    int64    `json:"unread_count"`
	IsArchived     bool     `json:"is_archived"`
	ParticipantIds []string `json:"participant_ids"`
	CreatedAt      int64    `json:"created_at"`
	UpdatedAt      int64    `json:"updated_at"`
}

// TeamInfo represents a team
type TeamInfo struct {
	Id             string   `json:"id"`
	Name           string   `json:"name"`
	OwnerId        string   `json:"owner_id"`
	ConversationId string   `json:"conversation_id"`
	MemberIds      []string `json:"member_ids"`
	CreatedAt      int64    `json:"created_at"`
}

// TypingAnnouncement represents a typing state change in a conversation
type TypingAnnouncement struct {
	ConversationId string `json:"conversation_id"`
	UserId         string `json:"user_id"`
	Typing         bool   `json:"typing"`
	At             int64  `json:"at"`
}

// PresenceEntry represents an online / offline announcement
type PresenceEntry struct {
	UserId string `json:"user_id"`
	Online bool   `json:"online"`
	At     int64  `json:"at"`
}

// TimeOffEntry represents a leave calendar entry
type TimeOffEntry struct {
	Id        string  `json:"id"`
	UserId    string  `json:"user_id"`
	Kind      string  `json:"kind"`
	Status    string  `json:"status"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	HalfDay   bool    `json:"half_day"`
	Note      *string `json:"note,omitempty"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

// TimesheetEntry represents a logged block of work time
type TimesheetEntry struct {
	Id        string  `json:"id"`
	UserId    string  `json:"user_id"`
	WorkDate  string  `json:"work_date"`
	Minutes   int64   `json:"minutes"`
	Project   string  `json:"project,omitempty"`
	Note      *string `json:"note,omitempty"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
}

// Holiday represents a company holiday
type Holiday struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Region    string `json:"region,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// MeetingInfo represents a scheduled meeting
type MeetingInfo struct {
	Id          string   `json:"id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	OrganizerId string   `json:"organizer_id"`
	AttendeeIds []string `json:"attendee_ids"`
	StartsAt    int64    `json:"starts_at"`
	EndsAt      int64    `json:"ends_at"`
	Location    string   `json:"location,omitempty"`
	CreatedAt   int64    `json:"created_at"`
}

// SendMessageRequest represents a send message request
type SendMessageRequest struct {
	ConversationId string       `json:"conversation_id"`
	Content        string       `json:"content"`
	Attachments    []Attachment `json:"attachments,omitempty"`
}

// Subscription is a live registration on the change stream. Unsubscribe
// stops delivery; calling it more than once is harmless.
type Subscription interface {
	Unsubscribe()
}
