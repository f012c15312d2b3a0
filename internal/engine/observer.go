package engine

import "github.com/rpggio/medchron/internal/domain/project"

// RunOutcome describes how a run ended.
type RunOutcome string

const (
	OutcomeCompleted  RunOutcome = "completed"
	OutcomeSuperseded RunOutcome = "superseded"
	OutcomeCancelled  RunOutcome = "cancelled"
)

// Observer receives engine events from inside the actor. Implementations
// must not block or call back into the engine.
type Observer interface {
	ProjectsReplaced(counts map[project.StatusKind]int)
	StatusChanged(from, to project.StatusKind)
	RunStarted()
	RunEnded(outcome RunOutcome)
	Ticked()
}

type nopObserver struct{}

func (nopObserver) ProjectsReplaced(map[project.StatusKind]int) {}
func (nopObserver) StatusChanged(project.StatusKind, project.StatusKind) {}
func (nopObserver) RunStarted() {}
func (nopObserver) RunEnded(RunOutcome) {}
func (nopObserver) Ticked() {}
