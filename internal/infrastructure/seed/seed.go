// Package seed loads the sample dashboard data shipped with the binary, or
// an alternative fixture file in the same YAML layout.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taskmaster/dashboard/internal/application/services"
	"github.com/taskmaster/dashboard/internal/domain/entities"
)

//go:embed fixtures.yaml
var sampleData []byte

// document mirrors fixtures.yaml. Assignees and project teams may carry just
// a member id; the rest is filled in from the team list.
type document struct {
	Team     []entities.TeamMember `yaml:"team"`
	Projects []entities.Project    `yaml:"projects"`
	Meetings []entities.Meeting    `yaml:"meetings"`
	Tasks    []entities.Task       `yaml:"tasks"`
}

// Sample returns the built-in fixtures
func Sample() (services.Fixtures, error) {
	return Parse(bytes.NewReader(sampleData))
}

// LoadFile reads fixtures from path
func LoadFile(path string) (services.Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return services.Fixtures{}, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes and checks a fixture document
func Parse(r io.Reader) (services.Fixtures, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return services.Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}

	members := make(map[string]entities.TeamMember, len(doc.Team))
	for _, m := range doc.Team {
		if m.ID == "" {
			return services.Fixtures{}, fmt.Errorf("team member %q has no id", m.Name)
		}
		members[m.ID] = m
	}

	resolve := func(a entities.Assignee) (entities.Assignee, error) {
		if a.ID == "" {
			return a, nil
		}
		m, ok := members[a.ID]
		if !ok {
			return a, fmt.Errorf("unknown team member %q", a.ID)
		}
		return m.AsAssignee(), nil
	}

	for i, t := range doc.Tasks {
		if err := checkTask(t); err != nil {
			return services.Fixtures{}, err
		}
		assignee, err := resolve(t.Assignee)
		if err != nil {
			return services.Fixtures{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		doc.Tasks[i].Assignee = assignee
	}

	for i, p := range doc.Projects {
		if p.ID == "" || !p.Status.IsValid() || !p.ProjectType.IsValid() {
			return services.Fixtures{}, fmt.Errorf("project %q is incomplete", p.Name)
		}
		for j, a := range p.Team {
			assignee, err := resolve(a)
			if err != nil {
				return services.Fixtures{}, fmt.Errorf("project %s: %w", p.ID, err)
			}
			doc.Projects[i].Team[j] = assignee
		}
	}

	for _, m := range doc.Meetings {
		if m.ID == "" || m.Date.IsZero() {
			return services.Fixtures{}, fmt.Errorf("meeting %q is incomplete", m.Title)
		}
	}

	return services.Fixtures{
		Team:     doc.Team,
		Projects: doc.Projects,
		Meetings: doc.Meetings,
		Tasks:    doc.Tasks,
	}, nil
}

func checkTask(t entities.Task) error {
	switch {
	case t.ID == "":
		return fmt.Errorf("task %q has no id", t.Title)
	case !t.Status.IsValid():
		return fmt.Errorf("task %s: invalid status %q", t.ID, t.Status)
	case !t.Priority.IsValid():
		return fmt.Errorf("task %s: invalid priority %q", t.ID, t.Priority)
	case t.DueDate.IsZero():
		return fmt.Errorf("task %s: missing due date", t.ID)
	}
	return nil
}
