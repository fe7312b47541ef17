package sdk

import (
	"context"
	"strconv"
)

// CreateTimeOffRequest represents a create leave entry request
type CreateTimeOffRequest struct {
	Kind      string  `json:"kind"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	HalfDay   bool    `json:"half_day"`
	Note      *string `json:"note,omitempty"`
}

// UpdateTimeOffRequest represents an update leave entry request
type UpdateTimeOffRequest struct {
	Kind   *string `json:"kind,omitempty"`
	Status *string `json:"status,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// CreateTimeOff creates a leave entry for the caller
func (c *Client) CreateTimeOff(ctx context.Context, req *CreateTimeOffRequest) (*TimeOffEntry, error) {
	var result TimeOffEntry
	if err := c.post(ctx, "/time_off", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listTimeOffResponse wraps the leave entries envelope
type listTimeOffResponse struct {
	Entries []*TimeOffEntry `json:"entries"`
}

// ListTimeOff fetches leave entries over a date range. userId optionally
// narrows to one person.
func (c *Client) ListTimeOff(ctx context.Context, from, to, userId string) ([]*TimeOffEntry, error) {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}
	if userId != "" {
		params["user_id"] = userId
	}

	var result listTimeOffResponse
	if err := c.get(ctx, "/time_off", params, &result); err != nil {
		return nil, err
	}
	return result.Entries, nil
}

// UpdateTimeOff updates a leave entry the caller owns
func (c *Client) UpdateTimeOff(ctx context.Context, entryId string, req *UpdateTimeOffRequest) (*TimeOffEntry, error) {
	var result TimeOffEntry
	if err := c.put(ctx, "/time_off/"+entryId, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteTimeOff deletes a leave entry the caller owns
func (c *Client) DeleteTimeOff(ctx context.Context, entryId string) error {
	return c.delete(ctx, "/time_off/"+entryId, nil, nil)
}

// LogTimeRequest represents a log time request
type LogTimeRequest struct {
	WorkDate string  `json:"work_date"`
	Minutes  int64   `json:"minutes"`
	Project  string  `json:"project,omitempty"`
	Note     *string `json:"note,omitempty"`
}

// LogTime creates a timesheet entry for the caller
func (c *Client) LogTime(ctx context.Context, req *LogTimeRequest) (*TimesheetEntry, error) {
	var result TimesheetEntry
	if err := c.post(ctx, "/timesheets", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listTimesheetResponse wraps the timesheet envelope
type listTimesheetResponse struct {
	Entries      []*TimesheetEntry `json:"entries"`
	TotalMinutes int64             `json:"total_minutes"`
}

// ListTimesheet fetches the caller's timesheet entries over a date range
// together with the total logged minutes.
func (c *Client) ListTimesheet(ctx context.Context, from, to string) ([]*TimesheetEntry, int64, error) {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}

	var result listTimesheetResponse
	if err := c.get(ctx, "/timesheets", params, &result); err != nil {
		return nil, 0, err
	}
	return result.Entries, result.TotalMinutes, nil
}

// UpdateTimesheet updates a timesheet entry the caller owns
func (c *Client) UpdateTimesheet(ctx context.Context, entryId string, req *LogTimeRequest) (*TimesheetEntry, error) {
	var result TimesheetEntry
	if err := c.put(ctx, "/timesheets/"+entryId, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteTimesheet deletes a timesheet entry the caller owns
func (c *Client) DeleteTimesheet(ctx context.Context, entryId string) error {
	return c.delete(ctx, "/timesheets/"+entryId, nil, nil)
}

// CreateHolidayRequest represents a create holiday request
type CreateHolidayRequest struct {
	Name   string `json:"name"`
	Date   string `json:"date"`
	Region string `json:"region,omitempty"`
}

// CreateHoliday creates a company holiday
func (c *Client) CreateHoliday(ctx context.Context, req *CreateHolidayRequest) (*Holiday, error) {
	var result Holiday
	if err := c.post(ctx, "/holidays", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listHolidaysResponse wraps the holidays envelope
type listHolidaysResponse struct {
	Holidays []*Holiday `json:"holidays"`
}

// ListHolidays fetches company holidays over a date range
func (c *Client) ListHolidays(ctx context.Context, from, to string) ([]*Holiday, error) {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}

	var result listHolidaysResponse
	if err := c.get(ctx, "/holidays", params, &result); err != nil {
		return nil, err
	}
	return result.Holidays, nil
}

// DeleteHoliday deletes a company holiday
func (c *Client) DeleteHoliday(ctx context.Context, holidayId string) error {
	return c.delete(ctx, "/holidays/"+holidayId, nil, nil)
}

// ScheduleMeetingRequest represents a schedule meeting request
type ScheduleMeetingRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	AttendeeIds []string `json:"attendee_ids"`
	StartsAt    int64    `json:"starts_at"`
	EndsAt      int64    `json:"ends_at"`
	Location    string   `json:"location,omitempty"`
}

// ScheduleMeeting schedules a meeting with the caller as organizer
func (c *Client) ScheduleMeeting(ctx context.Context, req *ScheduleMeetingRequest) (*MeetingInfo, error) {
	var result MeetingInfo
	if err := c.post(ctx, "/meetings", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// listMeetingsResponse wraps the meetings envelope
type listMeetingsResponse struct {
	Meetings []*MeetingInfo `json:"meetings"`
}

// ListMeetings fetches meetings starting within [from, to] unix-milli
func (c *Client) ListMeetings(ctx context.Context, from, to int64) ([]*MeetingInfo, error) {
	params := map[string]string{}
	if from > 0 {
		params["from"] = strconv.FormatInt(from, 10)
	}
	if to > 0 {
		params["to"] = strconv.FormatInt(to, 10)
	}

	var result listMeetingsResponse
	if err := c.get(ctx, "/meetings", params, &result); err != nil {
		return nil, err
	}
	return result.Meetings, nil
}

// CancelMeeting cancels a meeting the caller organized
func (c *Client) CancelMeeting(ctx context.Context, meetingId string) error {
	return c.delete(ctx, "/meetings/"+meetingId, nil, nil)
}
