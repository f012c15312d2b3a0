// Package engine owns project statuses and simulates asynchronous runs.
//
// All state lives in a single actor goroutine. Public methods submit
// closures to that goroutine and wait for them, so callers never observe a
// partially applied update. Each run is a separate goroutine with its own
// context; it only sleeps and asks the actor to apply the next step.
package engine

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rpggio/medchron/internal/domain/project"
)

// ErrClosed is returned by mutations submitted after Close.
var ErrClosed = errors.New("engine closed")

// Reason explains why an Update was published.
type Reason string

const (
	ReasonRefreshed Reason = "refreshed"
	ReasonInitiated Reason = "initiated"
	ReasonStarted   Reason = "started"
	ReasonProgress  Reason = "progress"
	ReasonCompleted Reason = "completed"
	ReasonManual    Reason = "manual"
)

// Update describes one change to the collection. For ReasonRefreshed only
// Count is set.
type Update struct {
	Reason   Reason          `json:"reason"`
	Project  project.Project `json:"project"`
	Previous project.Status  `json:"previous"`
	Count    int             `json:"count,omitempty"`
}

// Engine is the status state machine for a collection of projects.
type Engine struct {
	opts Options

	ops    chan func(*state)
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	runWG  sync.WaitGroup

	closeOnce sync.Once
}

type state struct {
	projects []project.Project
	index    map[string]int
	runs     map[string]*run
	subs     map[int]chan Update
	nextSub  int
}

type run struct {
	projectID string
	// total is fixed when the run enters in_progress; negative means draw.
	total   int
	maxStep int
	delay   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts an engine with an empty collection.
func New(opts Options) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		opts:   opts.withDefaults(),
		ops:    make(chan func(*state)),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go e.loop(&state{
		index: make(map[string]int),
		runs:  make(map[string]*run),
		subs:  make(map[int]chan Update),
	})
	return e
}

func (e *Engine) loop(s *state) {
	defer close(e.done)
	for {
		select {
		case op := <-e.ops:
			op(s)
		case <-e.ctx.Done():
			for id := range s.runs {
				e.cancelRun(s, id, OutcomeCancelled)
			}
			for id, ch := range s.subs {
				delete(s.subs, id)
				close(ch)
			}
			return
		}
	}
}

// do runs fn on the actor and waits for it. It reports false when the
// engine has shut down and fn was not run.
func (e *Engine) do(fn func(*state)) bool {
	finished := make(chan struct{})
	select {
	case e.ops <- func(s *state) {
		defer close(finished)
		fn(s)
	}:
	case <-e.done:
		return false
	}
	<-finished
	return true
}

// Close cancels every run and stops the actor.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.cancel()
		<-e.done
		e.runWG.Wait()
	})
}

// Replace installs a new collection wholesale. Every active run belongs to
// a superseded project and is cancelled first.
func (e *Engine) Replace(projects []project.Project) {
	e.do(func(s *state) {
		for id := range s.runs {
			e.cancelRun(s, id, OutcomeSuperseded)
		}
		s.projects = make([]project.Project, 0, len(projects))
		s.index = make(map[string]int, len(projects))
		counts := make(map[project.StatusKind]int, len(project.Kinds))
		for _, p := range projects {
			if _, dup := s.index[p.ID]; dup {
				continue
			}
			s.index[p.ID] = len(s.projects)
			s.projects = append(s.projects, p)
			counts[p.Status.Kind]++
		}
		e.opts.Observer.ProjectsReplaced(counts)
		e.publish(s, Update{Reason: ReasonRefreshed, Count: len(s.projects)})
		if e.opts.Logger != nil {
			e.opts.Logger.Debug("projects replaced", "count", len(s.projects))
		}
	})
}

// Initiate moves every known id to pending with one shared timestamp and
// schedules a run for each. Unknown and repeated ids are ignored. It
// returns the ids that were initiated, in input order.
func (e *Engine) Initiate(ids []string, by project.User) []string {
	var initiated []string
	e.do(func(s *state) {
		now := e.opts.Now()
		for _, id := range ids {
			i, ok := s.index[id]
			if !ok || slices.Contains(initiated, id) {
				continue
			}
			delay := e.opts.PendingDelay + time.Duration(len(initiated))*e.opts.PendingStagger
			e.begin(s, i, by, now, &run{
				projectID: id,
				total:     -1,
				maxStep:   e.opts.BulkMaxStep,
				delay:     delay,
			})
			initiated = append(initiated, id)
		}
	})
	return initiated
}

// Run starts a single-project run with a fixed amount of work. It reports
// false for unknown ids.
func (e *Engine) Run(id string, total int, by project.User) bool {
	if total < 0 {
		total = 0
	}
	found := false
	e.do(func(s *state) {
		i, ok := s.index[id]
		if !ok {
			return
		}
		found = true
		e.begin(s, i, by, e.opts.Now(), &run{
			projectID: id,
			total:     total,
			maxStep:   e.opts.RunMaxStep,
			delay:     e.opts.PendingDelay,
		})
	})
	return found
}

// SetStatus overwrites a project's status. Unknown ids are ignored. A
// manual write supersedes the project's active run. With strict transitions
// enabled, edges outside the lifecycle graph are rejected.
func (e *Engine) SetStatus(id string, status project.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	var err error
	ok := e.do(func(s *state) {
		i, found := s.index[id]
		if !found {
			return
		}
		prev := s.projects[i]
		if e.opts.StrictTransitions {
			if err = project.ValidateTransition(prev.Status, status); err != nil {
				return
			}
		}
		e.cancelRun(s, id, OutcomeSuperseded)
		e.put(s, i, prev.WithStatus(status), ReasonManual)
	})
	if !ok {
		return ErrClosed
	}
	return err
}

// Snapshot returns a copy of the collection in its stored order.
func (e *Engine) Snapshot() []project.Project {
	var out []project.Project
	e.do(func(s *state) {
		out = slices.Clone(s.projects)
	})
	return out
}

// Get returns one project by id.
func (e *Engine) Get(id string) (project.Project, bool) {
	var (
		p     project.Project
		found bool
	)
	e.do(func(s *state) {
		if i, ok := s.index[id]; ok {
			p, found = s.projects[i], true
		}
	})
	return p, found
}

// ActiveRuns returns the number of runs that have not finished.
func (e *Engine) ActiveRuns() int {
	n := 0
	e.do(func(s *state) {
		n = len(s.runs)
	})
	return n
}

// Subscribe returns a stream of updates and a function that ends the
// subscription. Updates are dropped for subscribers whose buffer is full.
// The channel is closed on unsubscribe or Close.
func (e *Engine) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, e.opts.SubscriberBuffer)
	id := 0
	if !e.do(func(s *state) {
		id = s.nextSub
		s.nextSub++
		s.subs[id] = ch
	}) {
		close(ch)
		return ch, func() {}
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.do(func(s *state) {
				if _, ok := s.subs[id]; ok {
					delete(s.subs, id)
					close(ch)
				}
			})
		})
	}
}

// begin marks project i pending on behalf of by and starts r.
func (e *Engine) begin(s *state, i int, by project.User, at time.Time, r *run) {
	prev := s.projects[i]
	e.cancelRun(s, prev.ID, OutcomeSuperseded)

	user := by
	next := prev.WithStatus(project.Pending())
	next.InitiatedBy = &user
	next.InitiatedAt = &at
	e.put(s, i, next, ReasonInitiated)

	r.ctx, r.cancel = context.WithCancel(e.ctx)
	s.runs[r.projectID] = r
	e.opts.Observer.RunStarted()
	e.runWG.Add(1)
	go e.drive(r)
}

// put replaces project i with next and publishes the change.
func (e *Engine) put(s *state, i int, next project.Project, reason Reason) {
	prev := s.projects[i]
	s.projects[i] = next
	e.opts.Observer.StatusChanged(prev.Status.Kind, next.Status.Kind)
	e.publish(s, Update{Reason: reason, Project: next, Previous: prev.Status})
}

func (e *Engine) publish(s *state, u Update) {
	for _, ch := range s.subs {
		select {
		case ch <- u:
		default:
			if e.opts.Logger != nil {
				e.opts.Logger.Debug("dropping update for slow subscriber", "reason", u.Reason, "project_id", u.Project.ID)
			}
		}
	}
}

func (e *Engine) cancelRun(s *state, id string, outcome RunOutcome) {
	if r, ok := s.runs[id]; ok {
		e.finishRun(s, r, outcome)
	}
}

func (e *Engine) finishRun(s *state, r *run, outcome RunOutcome) {
	delete(s.runs, r.projectID)
	r.cancel()
	e.opts.Observer.RunEnded(outcome)
	if e.opts.Logger != nil {
		e.opts.Logger.Debug("run finished", "project_id", r.projectID, "outcome", outcome)
	}
}
