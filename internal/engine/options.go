package engine

import (
	"log/slog"
	"math/rand/v2"
	"time"
)

// Options configures the simulated run timeline.
type Options struct {
	// PendingDelay is how long a run stays pending before it starts.
	PendingDelay time.Duration
	// PendingStagger is added per position in a bulk initiation.
	PendingStagger time.Duration
	TickInterval   time.Duration

	// TotalMin and TotalMax bound the work units drawn for bulk runs.
	TotalMin int
	TotalMax int

	BulkMaxStep int
	RunMaxStep  int

	StrictTransitions bool

	// SubscriberBuffer is the channel capacity handed to each subscriber.
	SubscriberBuffer int

	Rand     *rand.Rand
	Now      func() time.Time
	Observer Observer
	Logger   *slog.Logger
}

// DefaultOptions returns the dashboard's standard run timings.
func DefaultOptions() Options {
	return Options{
		PendingDelay:     2 * time.Second,
		PendingStagger:   2 * time.Second,
		TickInterval:     time.Second,
		TotalMin:         20,
		TotalMax:         49,
		BulkMaxStep:      5,
		RunMaxStep:       3,
		SubscriberBuffer: 64,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PendingDelay < 0 {
		o.PendingDelay = 0
	}
	if o.PendingStagger < 0 {
		o.PendingStagger = 0
	}
	if o.TickInterval <= 0 {
		o.TickInterval = def.TickInterval
	}
	if o.TotalMin < 0 {
		o.TotalMin = 0
	}
	if o.TotalMax < o.TotalMin {
		o.TotalMax = o.TotalMin
	}
	if o.BulkMaxStep < 1 {
		o.BulkMaxStep = def.BulkMaxStep
	}
	if o.RunMaxStep < 1 {
		o.RunMaxStep = def.RunMaxStep
	}
	if o.SubscriberBuffer < 0 {
		o.SubscriberBuffer = 0
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6d656463))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}
