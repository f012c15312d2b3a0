package engine

import (
	"context"
	"time"

	"github.com/rpggio/medchron/internal/domain/project"
)

// drive sleeps through the pending delay and then ticks until the run
// finishes or its context is cancelled.
func (e *Engine) drive(r *run) {
	defer e.runWG.Done()

	if !sleep(r.ctx, r.delay) {
		return
	}
	if !e.step(r, e.start) {
		return
	}

	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if !e.step(r, e.advance) {
				return
			}
		}
	}
}

// step applies fn on the actor if r is still the live run for its project.
// A run removed from the table by refresh, a manual write or a newer run is
// never applied. It reports whether the run continues.
func (e *Engine) step(r *run, fn func(*state, *run) bool) bool {
	alive := false
	e.do(func(s *state) {
		if s.runs[r.projectID] != r {
			return
		}
		alive = fn(s, r)
	})
	return alive
}

func (e *Engine) start(s *state, r *run) bool {
	i, ok := s.index[r.projectID]
	if !ok {
		e.finishRun(s, r, OutcomeCancelled)
		return false
	}
	if r.total < 0 {
		r.total = e.opts.TotalMin + e.opts.Rand.IntN(e.opts.TotalMax-e.opts.TotalMin+1)
	}
	e.put(s, i, s.projects[i].WithStatus(project.InProgress(0, r.total)), ReasonStarted)
	if r.total == 0 {
		e.put(s, i, s.projects[i].WithStatus(project.Completed()), ReasonCompleted)
		e.finishRun(s, r, OutcomeCompleted)
		return false
	}
	return true
}

func (e *Engine) advance(s *state, r *run) bool {
	i, ok := s.index[r.projectID]
	if !ok {
		e.finishRun(s, r, OutcomeCancelled)
		return false
	}
	cur := s.projects[i].Status
	if cur.Kind != project.KindInProgress {
		e.finishRun(s, r, OutcomeCancelled)
		return false
	}
	e.opts.Observer.Ticked()

	processed := cur.Processed + 1 + e.opts.Rand.IntN(r.maxStep)
	if processed >= cur.Total {
		e.put(s, i, s.projects[i].WithStatus(project.Completed()), ReasonCompleted)
		e.finishRun(s, r, OutcomeCompleted)
		return false
	}
	e.put(s, i, s.projects[i].WithStatus(project.InProgress(processed, cur.Total)), ReasonProgress)
	return true
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
