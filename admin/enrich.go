package admin

import (
	"fmt"
	"strings"
	"time"
)

// EnrichedLoan is a loan joined with display fields resolved from the
// current book and member collections. It is recomputed on every render
// and never cached.
type EnrichedLoan struct {
	Loan
	BookTitle  string
	MemberName string
	Status     LoanStatus
	Late       bool
}

// EnrichLoans produces one EnrichedLoan per loan, preserving input order.
// A loan whose book or member no longer exists (deleted after the loan was
// taken) gets a "#<id>" placeholder label instead of failing the render.
func EnrichLoans(loans []Loan, books []Book, members []Member, now time.Time) []EnrichedLoan {
	rows := make([]EnrichedLoan, 0, len(loans))
	for _, l := range loans {
		row := EnrichedLoan{
			Loan:       l,
			BookTitle:  fmt.Sprintf("#%d", l.BookID),
			MemberName: fmt.Sprintf("#%d", l.MemberID),
			Status:     l.StatusAt(now),
			Late:       l.LateAt(now),
		}
		for _, b := range books {
			if b.ID == l.BookID {
				row.BookTitle = b.Title
				break
			}
		}
		for _, m := range members {
			if m.ID == l.MemberID {
				row.MemberName = m.Name
				break
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// AvailableBooks returns the books with at least one copy on the shelf, in
// input order. This is the only source of loanable books for the new-loan
// form; total_copies plays no part in it.
func AvailableBooks(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if b.AvailableCopies > 0 {
			out = append(out, b)
		}
	}
	return out
}

// FilterMembers is the local member search: case-insensitive substring
// match against name or email. Member lists are small enough that this
// never goes to the service.
func FilterMembers(members []Member, query string) []Member {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Member, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Email), q) {
			out = append(out, m)
		}
	}
	return out
}
