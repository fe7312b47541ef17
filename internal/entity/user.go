package entity

// User represents a user in the directory
type User struct {
	Id          string  `json:"id" gorm:"column:id;primaryKey"`
	DisplayName string  `json:"display_name" gorm:"column:display_name"`
	Avatar      string  `json:"avatar" gorm:"column:avatar"`
	Email       string  `json:"email" gorm:"column:email"`
	TeamId      string  `json:"team_id" gorm:"column:team_id"`
	Extra       *string `json:"extra" gorm:"column:extra;type:json"`
	CreatedAt   int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt   int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// UserInfo represents public user info for API responses
type UserInfo struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	TeamId      string `json:"team_id,omitempty"`
}

// ToUserInfo converts User to UserInfo
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		Id:          u.Id,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		TeamId:      u.TeamId,
	}
}
