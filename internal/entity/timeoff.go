package entity

// TimeOffEntry represents a leave entry on the shared calendar.
// StartDate/EndDate are inclusive dates in YYYY-MM-DD form.
type TimeOffEntry struct {
	Id        string  `json:"id" gorm:"column:id;primaryKey"`
	UserId    string  `json:"user_id" gorm:"column:user_id;index"`
	Kind      string  `json:"kind" gorm:"column:kind"`
	Status    string  `json:"status" gorm:"column:status"`
	StartDate string  `json:"start_date" gorm:"column:start_date"`
	EndDate   string  `json:"end_date" gorm:"column:end_date"`
	HalfDay   bool    `json:"half_day" gorm:"column:half_day"`
	Note      *string `json:"note" gorm:"column:note"`
	CreatedAt int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for TimeOffEntry
func (TimeOffEntry) TableName() string {
	return "time_off_entries"
}
