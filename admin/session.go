package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	// ErrBusy means a mutation of the same kind is still in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrCanceled means the operator declined the confirmation prompt;
	// no request was sent.
	ErrCanceled = errors.New("canceled")
)

// Mutation kinds for the in-flight flags. A second mutation of the same
// kind is refused while one is outstanding; unrelated kinds stay open.
const (
	opAddBook      = "add-book"
	opAddMember    = "add-member"
	opDeleteBook   = "delete-book"
	opDeleteMember = "delete-member"
	opCreateLoan   = "create-loan"
	opReturnLoan   = "return-loan"
)

// Session owns the admin view's state: the three collections fetched from
// the catalog service and the mutation coordinator around them. The
// collections are replaced wholesale by Refresh; mutations never patch
// them locally except for appending a freshly created book or member.
// All derived rows (enrichment, availability, summary) are pure functions
// of the current collections and are recomputed on each call.
type Session struct {
	client  *Client
	confirm Confirmer
	now     func() time.Time

	Books   []Book
	Members []Member
	Loans   []Loan

	inflight map[string]bool
}

// NewSession builds a session over the given client and confirmation
// capability.
func NewSession(client *Client, confirm Confirmer) *Session {
	return &Session{
		client:   client,
		confirm:  confirm,
		now:      time.Now,
		inflight: make(map[string]bool),
	}
}

// Refresh replaces all three collections from one batch of fetches. The
// three requests run as independent outstanding requests; nothing is
// committed until every one has succeeded, so a partial failure leaves the
// previous snapshot untouched. Responses from an abandoned earlier batch
// simply lose to the latest committed one (last write wins; there is no
// request sequencing).
func (s *Session) Refresh(ctx context.Context) error {
	var (
		books   []Book
		members []Member
		loans   []Loan

		bookErr, memberErr, loanErr error
		wg                          sync.WaitGroup
	)

	wg.Add(3)
	go func() { defer wg.Done(); books, bookErr = s.client.ListBooks(ctx) }()
	go func() { defer wg.Done(); members, memberErr = s.client.ListMembers(ctx) }()
	go func() { defer wg.Done(); loans, loanErr = s.client.ListLoans(ctx) }()
	wg.Wait()

	for _, err := range []error{bookErr, memberErr, loanErr} {
		if err != nil {
			return fmt.Errorf("refresh: %w", err)
		}
	}

	s.Books, s.Members, s.Loans = books, members, loans
	return nil
}

// AddBook validates and stores a new book. The created record is appended
// locally; adding a book cannot change anything else, so no reload.
func (s *Session) AddBook(ctx context.Context, nb NewBook) (Book, error) {
	if err := validateNewBook(nb); err != nil {
		return Book{}, err
	}
	if err := s.begin(opAddBook); err != nil {
		return Book{}, err
	}
	defer s.end(opAddBook)

	book, err := s.client.CreateBook(ctx, nb)
	if err != nil {
		return Book{}, err
	}
	s.Books = append(s.Books, book)
	return book, nil
}

// AddMember validates and registers a new member, appending on success.
func (s *Session) AddMember(ctx context.Context, nm NewMember) (Member, error) {
	if strings.TrimSpace(nm.Name) == "" || strings.TrimSpace(nm.Email) == "" {
		return Member{}, errors.New("name and email are required")
	}
	if err := s.begin(opAddMember); err != nil {
		return Member{}, err
	}
	defer s.end(opAddMember)

	member, err := s.client.CreateMember(ctx, nm)
	if err != nil {
		return Member{}, err
	}
	s.Members = append(s.Members, member)
	return member, nil
}

// RemoveBook deletes a book after confirmation. A false answer from the
// service (ErrNotFound) leaves the local collection untouched.
func (s *Session) RemoveBook(ctx context.Context, id int) error {
	if !s.confirm.Confirm(fmt.Sprintf("Delete book %d?", id)) {
		return ErrCanceled
	}
	if err := s.begin(opDeleteBook); err != nil {
		return err
	}
	defer s.end(opDeleteBook)

	if err := s.client.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.Books = removeBook(s.Books, id)
	return nil
}

// RemoveMember deletes a member after confirmation.
func (s *Session) RemoveMember(ctx context.Context, id int) error {
	if !s.confirm.Confirm(fmt.Sprintf("Delete member %d?", id)) {
		return ErrCanceled
	}
	if err := s.begin(opDeleteMember); err != nil {
		return err
	}
	defer s.end(opDeleteMember)

	if err := s.client.DeleteMember(ctx, id); err != nil {
		return err
	}
	s.Members = removeMember(s.Members, id)
	return nil
}

// BorrowBook registers a loan. A rejection (ErrLoanRejected) is returned
// as-is with no reload. On success all three collections are reloaded:
// the loan changed book availability, and availability only ever comes
// from the service.
func (s *Session) BorrowBook(ctx context.Context, memberID, bookID int, dueDate string) (Loan, error) {
	if memberID <= 0 || bookID <= 0 || strings.TrimSpace(dueDate) == "" {
		return Loan{}, errors.New("member, book and due date are all required")
	}
	if err := s.begin(opCreateLoan); err != nil {
		return Loan{}, err
	}
	defer s.end(opCreateLoan)

	loan, err := s.client.CreateLoan(ctx, NewLoan{
		BookID:   bookID,
		MemberID: memberID,
		DueDate:  strings.TrimSpace(dueDate),
	})
	if err != nil {
		return Loan{}, err
	}
	if err := s.Refresh(ctx); err != nil {
		return loan, fmt.Errorf("loan %d registered but reload failed: %w", loan.ID, err)
	}
	return loan, nil
}

// ReturnLoan marks a loan returned after confirmation and reloads all
// three collections, since the return put a copy back on the shelf.
func (s *Session) ReturnLoan(ctx context.Context, id int) error {
	if !s.confirm.Confirm(fmt.Sprintf("Mark loan %d as returned?", id)) {
		return ErrCanceled
	}
	if err := s.begin(opReturnLoan); err != nil {
		return err
	}
	defer s.end(opReturnLoan)

	if err := s.client.ReturnLoan(ctx, id); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("loan %d returned but reload failed: %w", id, err)
	}
	return nil
}

// SearchBooks dispatches a catalog search. A trimmed-empty query means the
// full local collection and no network call; anything else goes to the
// service, whose answer is used verbatim.
func (s *Session) SearchBooks(ctx context.Context, mode SearchMode, query string) ([]Book, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.Books, nil
	}
	return s.client.SearchBooks(ctx, mode, q)
}

// SearchMembers filters the local member collection; no network call.
func (s *Session) SearchMembers(query string) []Member {
	return FilterMembers(s.Members, query)
}

// LoanRows returns the enriched loan table for the current snapshot.
func (s *Session) LoanRows() []EnrichedLoan {
	return EnrichLoans(s.Loans, s.Books, s.Members, s.now())
}

// LoanableBooks returns the books that can back a new loan right now.
func (s *Session) LoanableBooks() []Book {
	return AvailableBooks(s.Books)
}

// Summary returns the dashboard counts for the current snapshot.
func (s *Session) Summary() Summary {
	return Summarize(s.Books, s.Members, s.Loans, s.now())
}

func (s *Session) begin(op string) error {
	if s.inflight[op] {
		return ErrBusy
	}
	s.inflight[op] = true
	return nil
}

func (s *Session) end(op string) { delete(s.inflight, op) }

func validateNewBook(nb NewBook) error {
	if strings.TrimSpace(nb.Title) == "" ||
		strings.TrimSpace(nb.Author) == "" ||
		strings.TrimSpace(nb.Category) == "" {
		return errors.New("title, author and category are required")
	}
	if nb.Year <= 0 {
		return errors.New("year must be a positive number")
	}
	if nb.TotalCopies <= 0 {
		return errors.New("total copies must be a positive number")
	}
	return nil
}

func removeBook(books []Book, id int) []Book {
	out := books[:0]
	for _, b := range books {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

func removeMember(members []Member, id int) []Member {
	out := members[:0]
	for _, m := range members {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
