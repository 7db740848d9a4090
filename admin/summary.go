package admin

import "time"

// Summary holds the dashboard counts.
type Summary struct {
	Books       int
	Members     int
	ActiveLoans int
	LateLoans   int
}

// Summarize computes the dashboard counts from one snapshot of the three
// collections. Lateness comes from the same predicate the loan table uses.
func Summarize(books []Book, members []Member, loans []Loan, now time.Time) Summary {
	s := Summary{Books: len(books), Members: len(members)}
	for _, l := range loans {
		if l.ReturnedAt != nil {
			continue
		}
		s.ActiveLoans++
		if l.LateAt(now) {
			s.LateLoans++
		}
	}
	return s
}
