package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/dashboard/internal/domain/entities"
)

func TestSampleFixtures(t *testing.T) {
	fx, err := Sample()
	require.NoError(t, err)

	assert.Len(t, fx.Team, 8)
	assert.Len(t, fx.Projects, 4)
	assert.Len(t, fx.Meetings, 3)
	require.Len(t, fx.Tasks, 5)

	first := fx.Tasks[0]
	assert.Equal(t, "task-1", first.ID)
	assert.Equal(t, entities.TaskStatusDone, first.Status)
	assert.Equal(t, "2025-04-05", first.DueDate.String())
	assert.Equal(t, "John Doe", first.Assignee.Name)
	assert.Equal(t, "JD", first.Assignee.Initials)

	withMeeting := fx.Tasks[1]
	require.NotNil(t, withMeeting.Meeting)
	assert.Equal(t, "11:00", withMeeting.Meeting.Time.String())

	standup := fx.Meetings[1]
	assert.Equal(t, "Daily Standup", standup.Title)
	assert.True(t, standup.Recurring)
	assert.Equal(t, "09:30", standup.Time.String())

	marketing := fx.Projects[0]
	require.Len(t, marketing.Team, 4)
	assert.Equal(t, "Rachel Green", marketing.Team[3].Name)
}

func TestParseRejectsUnknownAssignee(t *testing.T) {
	doc := `
team:
  - id: user-1
    name: John Doe
tasks:
  - id: task-1
    title: Orphan
    status: todo
    priority: low
    dueDate: "2025-04-05"
    assignee: {id: user-9}
`
	_, err := Parse(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user-9")
}

func TestParseRejectsInvalidStatus(t *testing.T) {
	doc := `
tasks:
  - id: task-1
    title: Blocked
    status: blocked
    priority: low
    dueDate: "2025-04-05"
`
	_, err := Parse(strings.NewReader(doc))
	assert.ErrorContains(t, err, "invalid status")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("tasks:\n  - id: task-1\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("team: []\ntasks: []\n"), 0o600))

	fx, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, fx.Tasks)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	fx, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Tasks)
}
