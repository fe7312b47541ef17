package entity

// Team represents a team of users. Each team owns one team conversation.
type Team struct {
	Id             string  `json:"id" gorm:"column:id;primaryKey"`
	Name           string  `json:"name" gorm:"column:name"`
	OwnerId        string  `json:"owner_id" gorm:"column:owner_id"`
	ConversationId string  `json:"conversation_id" gorm:"column:conversation_id"`
	Extra          *string `json:"extra" gorm:"column:extra;type:json"`
	CreatedAt      int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt      int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Team
func (Team) TableName() string {
	return "teams"
}

// TeamMember represents team membership
type TeamMember struct {
	Id        int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	TeamId    string `json:"team_id" gorm:"column:team_id;index:idx_team_user,unique"`
	UserId    string `json:"user_id" gorm:"column:user_id;index:idx_team_user,unique"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for TeamMember
func (TeamMember) TableName() string {
	return "team_members"
}

// TeamInfo represents team info for API responses
type TeamInfo struct {
	Id             string   `json:"id"`
	Name           string   `json:"name"`
	OwnerId        string   `json:"owner_id"`
	ConversationId string   `json:"conversation_id"`
	MemberIds      []string `json:"member_ids"`
	CreatedAt      int64    `json:"created_at"`
}
