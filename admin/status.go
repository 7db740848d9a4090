package admin

import "time"

// LoanStatus is the display status of a loan.
type LoanStatus string

const (
	StatusActive   LoanStatus = "active"
	StatusOverdue  LoanStatus = "overdue"
	StatusReturned LoanStatus = "returned"
)

// Classify derives a loan's status from its timestamps and the current
// instant. A returned loan is always StatusReturned, even when it came back
// after the due date. An open loan is StatusOverdue only strictly after its
// due instant; at the due instant it is still StatusActive.
func Classify(dueAt time.Time, returnedAt *time.Time, now time.Time) LoanStatus {
	switch {
	case returnedAt != nil:
		return StatusReturned
	case now.After(dueAt):
		return StatusOverdue
	default:
		return StatusActive
	}
}

// Late reports whether the loan is currently overdue. Every lateness check
// in the program goes through this predicate so the dashboard and the loan
// table cannot disagree.
func Late(dueAt time.Time, returnedAt *time.Time, now time.Time) bool {
	return Classify(dueAt, returnedAt, now) == StatusOverdue
}

// StatusAt classifies the loan at the given instant.
func (l Loan) StatusAt(now time.Time) LoanStatus {
	return Classify(l.DueAt.Time(), l.returnedTime(), now)
}

// LateAt reports whether the loan is overdue at the given instant.
func (l Loan) LateAt(now time.Time) bool {
	return Late(l.DueAt.Time(), l.returnedTime(), now)
}
