package ports

// Request types mirror the dashboard forms. Dates and times arrive as
// strings and are normalized by the stores after validation, so a bad value
// becomes a field error instead of a decode failure.

// Task related types
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Status      string `json:"status" validate:"omitempty,oneof=todo in-progress review done"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate" validate:"notblank,isodate"`
	AssigneeID  string `json:"assigneeId" field:"assignee" validate:"notblank"`
	HasMeeting  bool   `json:"hasMeeting"`
	MeetingTime string `json:"meetingTime" validate:"required_if=HasMeeting true,omitempty,hhmm"`
	MeetingLink string `json:"meetingLink" validate:"required_if=HasMeeting true,omitempty,notblank"`
}

// UpdateTaskRequest is a patch: nil fields keep their current value.
// HasMeeting=false removes an attached meeting.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	AssigneeID  *string `json:"assigneeId"`
	HasMeeting  *bool   `json:"hasMeeting"`
	MeetingTime *string `json:"meetingTime"`
	MeetingLink *string `json:"meetingLink"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in-progress review done"`
}

// Meeting related types
type CreateMeetingRequest struct {
	Title        string `json:"title" validate:"notblank"`
	Date         string `json:"date" validate:"notblank,isodate"`
	Time         string `json:"time" validate:"notblank,hhmm"`
	Duration     int    `json:"duration" validate:"omitempty,min=1,max=1440"`
	Link         string `json:"link" label:"Meeting link" validate:"notblank"`
	Participants int    `json:"participants" validate:"omitempty,min=0"`
	Description  string `json:"description" validate:"omitempty,max=2000"`
	Recurring    bool   `json:"recurring"`
}

type UpdateMeetingRequest struct {
	Title        *string `json:"title"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Duration     *int    `json:"duration"`
	Link         *string `json:"link"`
	Participants *int    `json:"participants"`
	Description  *string `json:"description"`
	Recurring    *bool   `json:"recurring"`
}

// Project related types
type CreateProjectRequest struct {
	Name           string   `json:"name" label:"Project name" validate:"notblank,max=200"`
	Description    string   `json:"description" label:"Project description" validate:"notblank,max=1000"`
	StartDate      string   `json:"startDate" validate:"notblank,isodate"`
	EndDate        string   `json:"endDate" validate:"notblank,isodate"`
	Status         string   `json:"status" validate:"omitempty,oneof=planning active on-hold completed"`
	TeamMemberIDs  []string `json:"team" field:"team" validate:"min=1,dive,notblank"`
	ProjectType    string   `json:"projectType" validate:"omitempty,oneof=scrum kanban"`
	SprintDuration int      `json:"sprintDuration" validate:"omitempty,min=1,max=8"`
}

// Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
