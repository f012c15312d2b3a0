package session

import (
	"time"

	"github.com/rpggio/medchron/internal/view"
)

// Session is one client's dashboard state: the checked rows and the last
// page it looked at.
type Session struct {
	ID           string      `json:"id"`
	Selected     []string    `json:"selected"`
	View         view.Config `json:"view"`
	Visible      []string    `json:"visible"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
}

// Selection returns the selected ids as a set.
func (s *Session) Selection() view.Selection {
	return view.NewSelection(s.Selected...)
}

func (s *Session) setSelection(sel view.Selection) {
	s.Selected = sel.IDs()
}
