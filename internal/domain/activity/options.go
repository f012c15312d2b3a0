package activity

// DefaultLimit caps List when no limit is given.
const DefaultLimit = 50

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	ProjectID string
	Type      *Type
	Limit     int
	Offset    int
}
