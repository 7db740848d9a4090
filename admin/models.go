package admin

import (
	"fmt"
	"strings"
	"time"
)

// Book represents one title in the catalog together with its copy counts.
// available_copies is maintained by the catalog service; the console never
// adjusts it locally and always reloads instead.
type Book struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	Year            int    `json:"year"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// Member represents a registered library member.
type Member struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt Timestamp `json:"joined_at"`
}

// Loan is one borrowing of one book by one member. ReturnedAt stays nil
// until the loan is returned.
type Loan struct {
	ID         int        `json:"id"`
	BookID     int        `json:"book_id"`
	MemberID   int        `json:"member_id"`
	BorrowedAt Timestamp  `json:"borrowed_at"`
	DueAt      Timestamp  `json:"due_at"`
	ReturnedAt *Timestamp `json:"returned_at"`
}

// NewBook is the payload for creating a book. The service initializes
// available_copies from TotalCopies.
type NewBook struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
	TotalCopies int    `json:"total_copies"`
}

// NewMember is the payload for registering a member.
type NewMember struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewLoan is the payload for registering a loan. DueDate is a plain
// YYYY-MM-DD date string; the service turns it into a timestamp.
type NewLoan struct {
	BookID   int    `json:"book_id"`
	MemberID int    `json:"member_id"`
	DueDate  string `json:"due_date"`
}

const timestampLayout = "2006-01-02T15:04:05"

// Timestamp is a time.Time that speaks the catalog service's wire format.
type Timestamp time.Time

// UnmarshalJSON parses the service layout, falling back to RFC 3339.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*ts = Timestamp(t)
	return nil
}

// MarshalJSON writes a quoted string in the service layout.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(ts.String()), nil
}

// String returns the quoted wire form.
func (ts Timestamp) String() string {
	return fmt.Sprintf("%q", time.Time(ts).Format(timestampLayout))
}

// Time converts back to a plain time.Time.
func (ts Timestamp) Time() time.Time { return time.Time(ts) }

// returnedTime unwraps the nullable return timestamp for the classifier.
func (l Loan) returnedTime() *time.Time {
	if l.ReturnedAt == nil {
		return nil
	}
	t := l.ReturnedAt.Time()
	return &t
}
