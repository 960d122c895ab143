package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/ports"
)

func meetingFixtures() []entities.Meeting {
	return []entities.Meeting{
		{ID: "meeting-3", Title: "Sprint Review", Date: entities.MustParseDate("2025-04-21"), Time: entities.MustParseTimeOfDay("14:00"), Duration: 60},
		{ID: "meeting-2", Title: "Daily Standup", Date: entities.MustParseDate("2025-04-20"), Time: entities.MustParseTimeOfDay("09:30"), Duration: 15, Recurring: true},
		{ID: "meeting-1", Title: "Sprint Planning", Date: entities.MustParseDate("2025-04-15"), Time: entities.MustParseTimeOfDay("09:00"), Duration: 60},
		{ID: "meeting-4", Title: "Design Sync", Date: entities.MustParseDate("2025-04-20"), Time: entities.MustParseTimeOfDay("09:30"), Duration: 30},
		{ID: "meeting-5", Title: "Early Sync", Date: entities.MustParseDate("2025-04-20"), Time: entities.MustParseTimeOfDay("08:00"), Duration: 30},
	}
}

func ids(meetings []entities.Meeting) []string {
	out := make([]string, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, m.ID)
	}
	return out
}

func TestMeetingListingsSortStably(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.Meetings.Seed(ctx, meetingFixtures()))

	all, err := d.Meetings.List(ctx)
	require.NoError(t, err)
	// meeting-2 and meeting-4 share a start; seed order decides
	assert.Equal(t, []string{"meeting-1", "meeting-5", "meeting-2", "meeting-4", "meeting-3"}, ids(all))
}

func TestMeetingDayRanges(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.Meetings.Seed(ctx, meetingFixtures()))

	upcoming, err := d.Meetings.Upcoming(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-5", "meeting-2", "meeting-4", "meeting-3"}, ids(upcoming))

	past, err := d.Meetings.Past(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-1"}, ids(past))

	today, err := d.Meetings.Today(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-5", "meeting-2", "meeting-4"}, ids(today))

	onDate, err := d.Meetings.ForDate(ctx, entities.MustParseDate("2025-04-21"))
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-3"}, ids(onDate))
}

func TestMeetingSearchAndFind(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.Meetings.Seed(ctx, meetingFixtures()))

	found, err := d.Meetings.Search(ctx, "SPRINT")
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-1", "meeting-3"}, ids(found))

	found, err = d.Meetings.Find(ctx, MeetingsUpcoming, "sprint", testNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-3"}, ids(found))
}

func TestMeetingHappeningNow(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.Meetings.Seed(ctx, meetingFixtures()))

	now := time.Date(2025, time.April, 20, 9, 40, 0, 0, time.UTC)
	live, err := d.Meetings.HappeningNow(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-2", "meeting-4"}, ids(live))

	// meeting-2 has ended, meeting-4 runs until 10:00
	live, err = d.Meetings.HappeningNow(ctx, now.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"meeting-4"}, ids(live))

	live, err = d.Meetings.HappeningNow(ctx, now.Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, live, "meetings about to start are not in progress")

	live, err = d.Meetings.HappeningNow(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestParseMeetingRange(t *testing.T) {
	r, err := ParseMeetingRange("")
	require.NoError(t, err)
	assert.Equal(t, MeetingsUpcoming, r)

	r, err = ParseMeetingRange(" Past ")
	require.NoError(t, err)
	assert.Equal(t, MeetingsPast, r)

	_, err = ParseMeetingRange("tomorrow")
	assert.Error(t, err)
}

func TestCreateMeeting(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	rec := record(d.Bus)

	m, err := d.Meetings.Create(ctx, ports.CreateMeetingRequest{
		Title:        "Retro",
		Date:         "2025-04-25",
		Time:         "16:00",
		Link:         "https://meet.google.com/retro",
		Participants: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "meeting-1745143200000", m.ID)
	assert.Equal(t, DefaultMeetingDuration, m.Duration)
	assert.Equal(t, []events.Type{events.MeetingCreated}, rec.types())

	got, err := d.Meetings.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestCreateMeetingValidation(t *testing.T) {
	d := newTestDashboard(t)

	_, err := d.Meetings.Create(context.Background(), ports.CreateMeetingRequest{Time: "25:00", Duration: -5})
	fields := fieldErrors(t, err)
	assert.Equal(t, "Title is required", fields["title"])
	assert.Equal(t, "Date is required", fields["date"])
	assert.Equal(t, "Time must be a valid time (HH:MM)", fields["time"])
	assert.Equal(t, "Meeting link is required", fields["link"])
	assert.Contains(t, fields, "duration")
}

func TestUpdateAndRemoveMeeting(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	require.NoError(t, d.Meetings.Seed(ctx, meetingFixtures()))
	rec := record(d.Bus)

	newTime := "10:00"
	m, err := d.Meetings.Update(ctx, "meeting-2", ports.UpdateMeetingRequest{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, "10:00", m.Time.String())
	assert.True(t, m.Recurring)

	blank := ""
	_, err = d.Meetings.Update(ctx, "meeting-2", ports.UpdateMeetingRequest{Link: &blank})
	assert.Equal(t, "Meeting link is required", fieldErrors(t, err)["link"])

	_, err = d.Meetings.Update(ctx, "meeting-99", ports.UpdateMeetingRequest{Time: &newTime})
	assert.ErrorIs(t, err, entities.ErrNotFound)

	require.NoError(t, d.Meetings.Remove(ctx, "meeting-2"))
	require.NoError(t, d.Meetings.Remove(ctx, "meeting-2"))

	assert.Equal(t, []events.Type{events.MeetingUpdated, events.MeetingDeleted}, rec.types())
}
