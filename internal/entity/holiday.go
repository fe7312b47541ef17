package entity

// Holiday represents a company-wide holiday on the shared calendar
type Holiday struct {
	Id        string `json:"id" gorm:"column:id;primaryKey"`
	Name      string `json:"name" gorm:"column:name"`
	Date      string `json:"date" gorm:"column:date;index"`
	Region    string `json:"region" gorm:"column:region"`
	CreatedBy string `json:"created_by" gorm:"column:created_by"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Holiday
func (Holiday) TableName() string {
	return "holidays"
}
