package catalog

// Wire models for the catalog service. Timestamps travel as strings in the
// timeLayout format; the store reads and writes them verbatim, so listing
// rows never re-parses time values.

const (
	timeLayout = "2006-01-02T15:04:05"
	dateLayout = "2006-01-02"
)

type Book struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	Year            int    `json:"year"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

type Member struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	JoinedAt string `json:"joined_at"`
}

type Loan struct {
	ID         int     `json:"id"`
	BookID     int     `json:"book_id"`
	MemberID   int     `json:"member_id"`
	BorrowedAt string  `json:"borrowed_at"`
	DueAt      string  `json:"due_at"`
	ReturnedAt *string `json:"returned_at"`
}

type NewBook struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
	TotalCopies int    `json:"total_copies"`
}

type NewMember struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

type NewLoan struct {
	BookID   int    `json:"book_id"`
	MemberID int    `json:"member_id"`
	DueDate  string `json:"due_date"`
}
