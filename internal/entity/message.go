package entity

import "encoding/json"

// Attachment represents a file attached to a message
type Attachment struct {
	Id       string `json:"id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
	URL      string `json:"url"`
}

// Reaction represents an emoji reaction on a message
type Reaction struct {
	UserId string `json:"user_id"`
	Emoji  string `json:"emoji"`
}

// Message represents a chat message. Soft deletion sets DeletedAt and clears
// Content; the row itself stays.
type Message struct {
	Id             string  `json:"id" gorm:"column:id;primaryKey"`
	ConversationId string  `json:"conversation_id" gorm:"column:conversation_id;index"`
	SenderId       string  `json:"sender_id" gorm:"column:sender_id"`
	Content        *string `json:"content" gorm:"column:content"`
	Attachments    *string `json:"-" gorm:"column:attachments;type:json"`
	Reactions      *string `json:"-" gorm:"column:reactions;type:json"`
	EditedAt       *int64  `json:"edited_at" gorm:"column:edited_at"`
	DeletedAt      *int64  `json:"deleted_at" gorm:"column:deleted_at"`
	CreatedAt      int64   `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      int64   `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// GetAttachments returns the decoded attachment list
func (m *Message) GetAttachments() []Attachment {
	if m.Attachments == nil {
		return nil
	}
	var list []Attachment
	if err := json.Unmarshal([]byte(*m.Attachments), &list); err != nil {
		return nil
	}
	return list
}

// SetAttachments encodes and stores the attachment list
func (m *Message) SetAttachments(list []Attachment) error {
	if len(list) == 0 {
		m.Attachments = nil
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	s := string(raw)
	m.Attachments = &s
	return nil
}

// GetReactions returns the decoded reaction list
func (m *Message) GetReactions() []Reaction {
	if m.Reactions == nil {
		return nil
	}
	var list []Reaction
	if err := json.Unmarshal([]byte(*m.Reactions), &list); err != nil {
		return nil
	}
	return list
}

// SetReactions encodes and stores the reaction list
func (m *Message) SetReactions(list []Reaction) error {
	if len(list) == 0 {
		m.Reactions = nil
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	s := string(raw)
	m.Reactions = &s
	return nil
}

// MessageInfo represents message info for API responses
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
}

// ToMessageInfo converts Message to MessageInfo
func (m *Message) ToMessageInfo() *MessageInfo {
	return &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		SenderId:       m.SenderId,
		Content:        m.Content,
		Attachments:    m.GetAttachments(),
		Reactions:      m.GetReactions(),
		EditedAt:       m.EditedAt,
		DeletedAt:      m.DeletedAt,
		CreatedAt:      m.CreatedAt,
	}
}
