package timeexception

import "time"

type Type string

const (
	TypeMissedPunch      Type = "MISSED_PUNCH"
	TypeLate             Type = "LATE"
	TypeEarlyLeave       Type = "EARLY_LEAVE"
	TypeShortTime        Type = "SHORT_TIME"
	TypeOvertimeRequest  Type = "OVERTIME_REQUEST"
	TypeManualAdjustment Type = "MANUAL_ADJUSTMENT"
)

var Types = []string{
	string(TypeMissedPunch),
	string(TypeLate),
	string(TypeEarlyLeave),
	string(TypeShortTime),
	string(TypeOvertimeRequest),
	string(TypeManualAdjustment),
}

type Status string

const (
	StatusOpen      Status = "OPEN"
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusEscalated Status = "ESCALATED"
	StatusResolved  Status = "RESOLVED"
)

var Statuses = []string{
	string(StatusOpen),
	string(StatusPending),
	string(StatusApproved),
	string(StatusRejected),
	string(StatusEscalated),
	string(StatusResolved),
}

// OverdueStatuses are the statuses picked up by automatic escalation.
var OverdueStatuses = []Status{StatusOpen, StatusPending}

type Action string

const (
	ActionAssign   Action = "assign"
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionEscalate Action = "escalate"
	ActionResolve  Action = "resolve"
)

type transition struct {
	from []Status
	to   Status
}

var transitions = map[Action]transition{
	ActionAssign:   {from: []Status{StatusOpen}, to: StatusPending},
	ActionApprove:  {from: []Status{StatusPending, StatusEscalated}, to: StatusApproved},
	ActionReject:   {from: []Status{StatusPending, StatusEscalated}, to: StatusRejected},
	ActionEscalate: {from: []Status{StatusOpen, StatusPending}, to: StatusEscalated},
	ActionResolve:  {from: []Status{StatusApproved, StatusRejected}, to: StatusResolved},
}

// NextStatus returns the status action leads to from current.
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

type TimeException struct {
	ID                 string
	EmployeeID         string
	Type               Type
	AttendanceRecordID *string
	AssignedTo         *string
	Status             Status
	Reason             string
	ResolutionNote     *string
	CreatedBy          *string
	EscalatedAt        *time.Time
	ResolvedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Apply moves e through action at now and stamps the lifecycle timestamps.
func (e *TimeException) Apply(action Action, now time.Time) error {
	next, err := NextStatus(e.Status, action)
	if err != nil {
		return err
	}
	e.Status = next
	e.UpdatedAt = now
	switch next {
	case StatusEscalated:
		e.EscalatedAt = &now
	case StatusResolved:
		e.ResolvedAt = &now
	}
	return nil
}

func (e TimeException) Editable() bool {
	return e.Status == StatusOpen
}

// IsOverdue reports whether e is waiting longer than threshold at now.
func (e TimeException) IsOverdue(now time.Time, threshold time.Duration) bool {
	if e.Status != StatusOpen && e.Status != StatusPending {
		return false
	}
	return e.CreatedAt.Before(now.Add(-threshold))
}
