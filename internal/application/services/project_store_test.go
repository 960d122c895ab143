package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/domain/entities"
	"github.com/taskmaster/dashboard/internal/ports"
)

func TestCreateProject(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()
	rec := record(d.Bus)

	p, err := d.Projects.Create(ctx, ports.CreateProjectRequest{
		Name:          "Mobile App",
		Description:   "Launch the companion app",
		StartDate:     "2025-04-01",
		EndDate:       "2025-06-30",
		TeamMemberIDs: []string{"1", "3", "1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "project-1745143200000", p.ID)
	assert.Equal(t, entities.ProjectStatusPlanning, p.Status)
	assert.Equal(t, entities.ProjectTypeScrum, p.ProjectType)
	assert.Equal(t, DefaultSprintDuration, p.SprintDuration)
	require.Len(t, p.Team, 2)
	assert.Equal(t, "Alex Johnson", p.Team[0].Name)
	assert.Equal(t, "David Chen", p.Team[1].Name)
	assert.Equal(t, []events.Type{events.ProjectCreated}, rec.types())

	list, err := d.Projects.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateProjectValidation(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()

	_, err := d.Projects.Create(ctx, ports.CreateProjectRequest{
		Name:          "Backwards",
		Description:   "Ends before it starts",
		StartDate:     "2025-05-10",
		EndDate:       "2025-05-01",
		TeamMemberIDs: []string{"42"},
	})
	fields := fieldErrors(t, err)
	assert.Equal(t, "End date must be after start date", fields["endDate"])
	assert.Equal(t, `Unknown team member "42"`, fields["team"])

	_, err = d.Projects.Create(ctx, ports.CreateProjectRequest{})
	fields = fieldErrors(t, err)
	assert.Equal(t, "Project name is required", fields["name"])
	assert.Equal(t, "At least one team member is required", fields["team"])

	list, err := d.Projects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateProjectSameDayIsValid(t *testing.T) {
	d := newTestDashboard(t)

	_, err := d.Projects.Create(context.Background(), ports.CreateProjectRequest{
		Name:          "One day",
		Description:   "Hackathon",
		StartDate:     "2025-05-01",
		EndDate:       "2025-05-01",
		TeamMemberIDs: []string{"2"},
	})
	assert.NoError(t, err)
}

func TestRemoveProject(t *testing.T) {
	d := newTestDashboard(t)
	ctx := context.Background()

	p, err := d.Projects.Create(ctx, ports.CreateProjectRequest{
		Name: "Temp", Description: "x", StartDate: "2025-05-01", EndDate: "2025-05-02", TeamMemberIDs: []string{"1"},
	})
	require.NoError(t, err)

	rec := record(d.Bus)
	require.NoError(t, d.Projects.Remove(ctx, p.ID))
	require.NoError(t, d.Projects.Remove(ctx, p.ID))
	assert.Equal(t, []events.Type{events.ProjectDeleted}, rec.types())

	_, err = d.Projects.Get(ctx, p.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
