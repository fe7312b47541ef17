package entity

import "encoding/json"

// Meeting represents a scheduled meeting
type Meeting struct {
	Id          string  `json:"id" gorm:"column:id;primaryKey"`
	Title       string  `json:"title" gorm:"column:title"`
	Description *string `json:"description" gorm:"column:description"`
	OrganizerId string  `json:"organizer_id" gorm:"column:organizer_id;index"`
	Attendees   *string `json:"-" gorm:"column:attendees;type:json"`
	StartsAt    int64   `json:"starts_at" gorm:"column:starts_at;index"`
	EndsAt      int64   `json:"ends_at" gorm:"column:ends_at"`
	Location    string  `json:"location" gorm:"column:location"`
	CreatedAt   int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt   int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// GetAttendees returns the decoded attendee id list
func (m *Meeting) GetAttendees() []string {
	if m.Attendees == nil {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(*m.Attendees), &list); err != nil {
		return nil
	}
	return list
}

// SetAttendees encodes and stores the attendee id list
func (m *Meeting) SetAttendees(list []string) error {
	if len(list) == 0 {
		m.Attendees = nil
		return nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return err
	}
	s := string(raw)
	m.Attendees = &s
	return nil
}

// MeetingInfo represents meeting info for API responses
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

// ToMeetingInfo converts Meeting to MeetingInfo
func (m *Meeting) ToMeetingInfo() *MeetingInfo {
	return &MeetingInfo{
		Id:          m.Id,
		Title:       m.Title,
		Description: m.Description,
		OrganizerId: m.OrganizerId,
		AttendeeIds: m.GetAttendees(),
		StartsAt:    m.StartsAt,
		EndsAt:      m.EndsAt,
		Location:    m.Location,
		CreatedAt:   m.CreatedAt,
	}
}
