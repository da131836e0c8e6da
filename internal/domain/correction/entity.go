package correction

import "time"

type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusInReview  Status = "IN_REVIEW"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusEscalated Status = "ESCALATED"
	StatusCancelled Status = "CANCELLED"
)

var Statuses = []string{
	string(StatusSubmitted),
	string(StatusInReview),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusEscalated),
	string(StatusCancelled),
}

// ActiveStatuses block a second request for the same attendance record.
var ActiveStatuses = []Status{StatusSubmitted, StatusInReview, StatusEscalated}

type Action string

const (
	ActionReview   Action = "review"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionEscalate Action = "escalate"
	ActionCancel   Action = "cancel"
)

var transitions = map[Action]struct {
	from []Status
	to   Status
}{
	ActionReview:   {from: []Status{StatusSubmitted}, to: StatusInReview},
	ActionApprove:  {from: []Status{StatusInReview, StatusEscalated}, to: StatusApproved},
	ActionReject:   {from: []Status{StatusInReview, StatusEscalated}, to: StatusRejected},
	ActionEscalate: {from: []Status{StatusSubmitted, StatusInReview}, to: StatusEscalated},
	ActionCancel:   {from: []Status{StatusSubmitted}, to: StatusCancelled},
}

func NextStatus(current Status, action Action) (Status, error) {
	t, ok := transitions[action]
	if !ok {
		return current, ErrInvalidStatusTransition
	}
	for _, s := range t.from {
		if s == current {
			return t.to, nil
		}
	}
	return current, ErrInvalidStatusTransition
}

type CorrectionRequest struct {
	ID                 string
	EmployeeID         string
	AttendanceRecordID string
	CorrectedClockIn   *time.Time
	CorrectedClockOut  *time.Time
	Reason             string
	Status             Status
	ReviewerID         *string
	ReviewNote         *string
	CreatedBy          *string
	EscalatedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (c *CorrectionRequest) Apply(action Action, now time.Time) error {
	next, err := NextStatus(c.Status, action)
	if err != nil {
		return err
	}
	c.Status = next
	c.UpdatedAt = now
	if next == StatusEscalated {
		c.EscalatedAt = &now
	}
	return nil
}

// Resolve returns the punches the record will have once the correction is
// applied on top of the current ones.
func (c CorrectionRequest) Resolve(currentIn, currentOut *time.Time) (*time.Time, *time.Time) {
	in, out := currentIn, currentOut
	if c.CorrectedClockIn != nil {
		in = c.CorrectedClockIn
	}
	if c.CorrectedClockOut != nil {
		out = c.CorrectedClockOut
	}
	return in, out
}
