package entity

// Conversation represents a conversation
type Conversation struct {
	Id            string  `json:"id" gorm:"column:id;primaryKey"`
	Type          string  `json:"type" gorm:"column:type"`
	Name          *string `json:"name" gorm:"column:name"`
	TeamId        string  `json:"team_id" gorm:"column:team_id"`
	LastMessage   *string `json:"last_message" gorm:"column:last_message"`
	LastMessageAt int64   `json:"last_message_at" gorm:"column:last_message_at"`
	CreatedBy     string  `json:"created_by" gorm:"column:created_by"`
	CreatedAt     int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt     int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// Participant is one user's membership row in a conversation. It carries the
// per-user read state: unread_count is bumped when others post and zeroed
// only by an explicit mark-as-read.
type Participant struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;index:idx_conv_user,unique"`
	UserId         string `json:"user_id" gorm:"column:user_id;index:idx_conv_user,unique"`
	UnreadCount    int64  `json:"unread_count" gorm:"column:unread_count"`
	LastReadAt     int64  `json:"last_read_at" gorm:"column:last_read_at"`
	IsArchived     bool   `json:"is_archived" gorm:"column:is_archived"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt      int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Participant
func (Participant) TableName() string {
	return "conversation_participants"
}

// ConversationInfo represents conversation info for API responses, as seen by
// one user: membership state is folded in.
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
