package order

import "errors"

var ErrInvalidStatus = errors.New("invalid order status")

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the full lifecycle table. CANCELLED and DELIVERED are terminal;
// SHIPPED can only move forward to DELIVERED.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancellable reports whether stock reserved for the order may still be
// released through cancellation.
func (s Status) IsCancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}
