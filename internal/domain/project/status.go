package project

import (
	"encoding/json"
	"fmt"
)

// StatusKind identifies the variant of a Status.
type StatusKind string

const (
	KindNotInitiated StatusKind = "not_initiated"
	KindReview       StatusKind = "review"
	KindPending      StatusKind = "pending"
	KindInProgress   StatusKind = "in_progress"
	KindCompleted    StatusKind = "completed"
)

// Kinds lists every status kind in dashboard order.
var Kinds = []StatusKind{
	KindCompleted,
	KindInProgress,
	KindPending,
	KindNotInitiated,
	KindReview,
}

// Valid reports whether k is a known kind.
func (k StatusKind) Valid() bool {
	switch k {
	case KindNotInitiated, KindReview, KindPending, KindInProgress, KindCompleted:
		return true
	}
	return false
}

// ParseKind converts an identifier into a StatusKind.
func ParseKind(s string) (StatusKind, error) {
	k := StatusKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidStatus, s)
	}
	return k, nil
}

// Status is the processing status of a project. Only the fields belonging
// to Kind carry meaning; use the constructors to build values.
type Status struct {
	Kind         StatusKind
	PendingCount int
	Processed    int
	Total        int
}

func NotInitiated() Status { return Status{Kind: KindNotInitiated} }

func Review(pendingCount int) Status {
	return Status{Kind: KindReview, PendingCount: pendingCount}
}

func Pending() Status { return Status{Kind: KindPending} }

func InProgress(processed, total int) Status {
	return Status{Kind: KindInProgress, Processed: processed, Total: total}
}

func Completed() Status { return Status{Kind: KindCompleted} }

// Validate checks the variant invariants.
func (s Status) Validate() error {
	switch s.Kind {
	case KindNotInitiated, KindPending, KindCompleted:
		return nil
	case KindReview:
		if s.PendingCount < 0 {
			return fmt.Errorf("%w: negative pending count", ErrInvalidStatus)
		}
		return nil
	case KindInProgress:
		if s.Processed < 0 || s.Total < 0 {
			return fmt.Errorf("%w: negative progress", ErrInvalidStatus)
		}
		if s.Processed > s.Total {
			return fmt.Errorf("%w: processed %d exceeds total %d", ErrInvalidStatus, s.Processed, s.Total)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidStatus, s.Kind)
	}
}

// Label returns the badge text shown on the dashboard.
func (s Status) Label() string {
	switch s.Kind {
	case KindCompleted:
		return "Complete"
	case KindInProgress:
		return fmt.Sprintf("In progress (%d/%d)", s.Processed, s.Total)
	case KindPending:
		return "Pending"
	case KindReview:
		return fmt.Sprintf("Review (%d)", s.PendingCount)
	case KindNotInitiated:
		return "Not initiated"
	default:
		return "Unknown"
	}
}

func (s Status) String() string {
	return s.Label()
}

type statusJSON struct {
	Kind         StatusKind `json:"kind"`
	PendingCount *int       `json:"pending_count,omitempty"`
	Processed    *int       `json:"processed,omitempty"`
	Total        *int       `json:"total,omitempty"`
}

// MarshalJSON encodes only the fields of the active variant.
func (s Status) MarshalJSON() ([]byte, error) {
	out := statusJSON{Kind: s.Kind}
	switch s.Kind {
	case KindReview:
		out.PendingCount = &s.PendingCount
	case KindInProgress:
		out.Processed = &s.Processed
		out.Total = &s.Total
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a tagged status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var in statusJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	decoded := Status{Kind: in.Kind}
	switch in.Kind {
	case KindReview:
		if in.PendingCount != nil {
			decoded.PendingCount = *in.PendingCount
		}
	case KindInProgress:
		if in.Processed != nil {
			decoded.Processed = *in.Processed
		}
		if in.Total != nil {
			decoded.Total = *in.Total
		}
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// ValidateTransition checks a status change against the lifecycle graph:
//
//	not_initiated -> pending -> in_progress -> completed
//
// Progress within in_progress must not move backwards or change total.
// Any status may be re-initiated into pending.
func ValidateTransition(from, to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}
	valid := false
	switch to.Kind {
	case KindPending:
		valid = true
	case KindInProgress:
		switch from.Kind {
		case KindPending:
			valid = to.Processed == 0
		case KindInProgress:
			valid = to.Total == from.Total && to.Processed >= from.Processed
		}
	case KindCompleted:
		valid = from.Kind == KindInProgress
	}
	if !valid {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from.Kind, to.Kind)
	}
	return nil
}
