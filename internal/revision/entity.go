// entity.go

package revision

import "time"

type Status string

const (
	StatusRequested  Status = "requested"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDeclined   Status = "declined"
)

func (s Status) Valid() bool {
	switch s {
	case StatusRequested, StatusInProgress, StatusCompleted, StatusDeclined:
		return true
	}
	return false
}

// Resolved reports whether the request has reached a terminal state.
func (s Status) Resolved() bool {
	return s == StatusCompleted || s == StatusDeclined
}

var statusTransitions = map[Status][]Status{
	StatusRequested:  {StatusInProgress, StatusDeclined},
	StatusInProgress: {StatusCompleted, StatusDeclined},
	StatusCompleted:  {},
	StatusDeclined:   {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Revision is a client's request to rework a delivered order.
// ResolvedAt is set exactly once, when the request reaches completed
// or declined.
type Revision struct {
	ID         string     `db:"id"`
	OrderID    string     `db:"order_id"`
	ClientID   string     `db:"client_id"`
	Details    string     `db:"details"`
	Status     Status     `db:"status"`
	ResolvedAt *time.Time `db:"resolved_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
