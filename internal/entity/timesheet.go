package entity

// TimesheetEntry represents logged working time for one user and day
type TimesheetEntry struct {
	Id        string  `json:"id" gorm:"column:id;primaryKey"`
	UserId    string  `json:"user_id" gorm:"column:user_id;index:idx_user_date"`
	WorkDate  string  `json:"work_date" gorm:"column:work_date;index:idx_user_date"`
	Minutes   int64   `json:"minutes" gorm:"column:minutes"`
	Project   string  `json:"project" gorm:"column:project"`
	Note      *string `json:"note" gorm:"column:note"`
	CreatedAt int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for TimesheetEntry
func (TimesheetEntry) TableName() string {
	return "timesheet_entries"
}
