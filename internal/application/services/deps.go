package services

import (
	"github.com/taskmaster/dashboard/internal/application/events"
	"github.com/taskmaster/dashboard/internal/application/validation"
	"github.com/taskmaster/dashboard/internal/infrastructure/logger"
	"github.com/taskmaster/dashboard/internal/ports"
)

// Deps bundles the collaborators shared by every store
type Deps struct {
	Bus       *events.Bus
	Validator *validation.Validator
	IDs       *IDGenerator
	Clock     ports.Clock
	Logger    *logger.Logger
}

// withDefaults fills in whatever the caller left nil.
func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = ports.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	if d.Bus == nil {
		d.Bus = events.NewBus(d.Logger)
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}
	if d.IDs == nil {
		d.IDs = NewIDGenerator(d.Clock)
	}
	return d
}
