package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

// DayBucket holds what is due or scheduled on one date
type DayBucket struct {
	Date     entities.Date      `json:"date" yaml:"date"`
	IsToday  bool               `json:"isToday" yaml:"isToday"`
	Tasks    []entities.Task    `json:"tasks" yaml:"tasks"`
	Meetings []entities.Meeting `json:"meetings" yaml:"meetings"`
}

// CalendarMonth is a month grid. LeadingBlanks is the weekday of the first
// day (Sunday = 0), i.e. the number of empty cells before it.
type CalendarMonth struct {
	Year          int         `json:"year" yaml:"year"`
	Month         time.Month  `json:"month" yaml:"month"`
	Title         string      `json:"title" yaml:"title"`
	LeadingBlanks int         `json:"leadingBlanks" yaml:"leadingBlanks"`
	Days          []DayBucket `json:"days" yaml:"days"`
}

// BuildCalendarMonth buckets tasks by due date and meetings by date for every
// day of the month. Meetings inside a day are ordered by time.
func BuildCalendarMonth(year int, month time.Month, tasks []entities.Task, meetings []entities.Meeting, today entities.Date) CalendarMonth {
	first := entities.NewDate(year, month, 1)
	days := DaysInMonth(year, month)

	taskIdx := make(map[entities.Date][]entities.Task)
	for _, t := range tasks {
		taskIdx[t.DueDate] = append(taskIdx[t.DueDate], t.Clone())
	}
	meetingIdx := make(map[entities.Date][]entities.Meeting)
	for _, m := range meetings {
		meetingIdx[m.Date] = append(meetingIdx[m.Date], m)
	}

	cal := CalendarMonth{
		Year:          first.Year,
		Month:         first.Month,
		Title:         fmt.Sprintf("%s %d", first.Month, first.Year),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]DayBucket, 0, days),
	}
	for day := 1; day <= days; day++ {
		date := entities.NewDate(year, month, day)
		bucket := DayBucket{
			Date:     date,
			IsToday:  date == today,
			Tasks:    taskIdx[date],
			Meetings: meetingIdx[date],
		}
		if bucket.Tasks == nil {
			bucket.Tasks = []entities.Task{}
		}
		if bucket.Meetings == nil {
			bucket.Meetings = []entities.Meeting{}
		}
		sortMeetingsByTime(bucket.Meetings)
		cal.Days = append(cal.Days, bucket)
	}
	return cal
}

// BuildDayBucket returns the bucket for a single date
func BuildDayBucket(date entities.Date, tasks []entities.Task, meetings []entities.Meeting, today entities.Date) DayBucket {
	bucket := DayBucket{
		Date:     date,
		IsToday:  date == today,
		Tasks:    []entities.Task{},
		Meetings: []entities.Meeting{},
	}
	for _, t := range tasks {
		if t.DueDate == date {
			bucket.Tasks = append(bucket.Tasks, t.Clone())
		}
	}
	for _, m := range meetings {
		if m.Date == date {
			bucket.Meetings = append(bucket.Meetings, m)
		}
	}
	sortMeetingsByTime(bucket.Meetings)
	return bucket
}

// Day returns the bucket for day-of-month n (1-based)
func (c CalendarMonth) Day(n int) (DayBucket, bool) {
	if n < 1 || n > len(c.Days) {
		return DayBucket{}, false
	}
	return c.Days[n-1], true
}

// Prev returns the year and month before c
func (c CalendarMonth) Prev() (int, time.Month) {
	d := entities.NewDate(c.Year, c.Month-1, 1)
	return d.Year, d.Month
}

// Next returns the year and month after c
func (c CalendarMonth) Next() (int, time.Month) {
	d := entities.NewDate(c.Year, c.Month+1, 1)
	return d.Year, d.Month
}

// DaysInMonth handles leap years through time normalization
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func sortMeetingsByTime(meetings []entities.Meeting) {
	sort.SliceStable(meetings, func(i, j int) bool {
		return meetings[i].Time.Minutes() < meetings[j].Time.Minutes()
	})
}
