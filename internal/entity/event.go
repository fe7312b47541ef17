package entity

// ChangeEvent is a change notification delivered over the stream gateway.
// Record is the post-change state of the record; for delete events it carries
// at least the record id.
type ChangeEvent struct {
	Type       string      `json:"type"` // insert | update | delete
	Collection string      `json:"collection"`
	Record     interface{} `json:"record"`

	// Delivery scoping, not serialized. ConversationId routes chat events to
	// conversation subscribers; UserIds limits delivery to specific users.
	// Both empty means broadcast.
	ConversationId string   `json:"-"`
	UserIds        []string `json:"-"`
}
