package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SearchMode selects which book field the catalog service matches against.
type SearchMode string

const (
	SearchByTitle    SearchMode = "title"
	SearchByAuthor   SearchMode = "author"
	SearchByCategory SearchMode = "category"
)

var (
	// ErrLoanRejected means the service refused to create the loan:
	// no copies on the shelf, or the due date was invalid. On the wire
	// this arrives as a created loan with a negative id; the client turns
	// it into this error so no caller ever checks the magic value.
	ErrLoanRejected = errors.New("loan rejected: no copies available or invalid due date")

	// ErrNotFound means a delete or return answered false: the record was
	// gone already or the operation could not be applied.
	ErrNotFound = errors.New("record not found or operation failed")
)

// Client talks to the catalog service. All methods take a context and
// return explicit errors; domain rejections surface as ErrLoanRejected or
// ErrNotFound, everything else is a transport failure.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
	}
}

// ListBooks fetches the full book collection.
func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// ListMembers fetches the full member collection.
func (c *Client) ListMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := c.do(ctx, http.MethodGet, "/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListLoans fetches the full loan collection.
func (c *Client) ListLoans(ctx context.Context) ([]Loan, error) {
	var loans []Loan
	if err := c.do(ctx, http.MethodGet, "/loans", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// SearchBooks asks the service for books whose field selected by mode
// contains query. The match happens server-side; the result is used as-is.
func (c *Client) SearchBooks(ctx context.Context, mode SearchMode, query string) ([]Book, error) {
	path := fmt.Sprintf("/search?mode=%s&q=%s", mode, url.QueryEscape(query))
	var books []Book
	if err := c.do(ctx, http.MethodGet, path, nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBook stores a new book and returns it with its server-assigned id.
func (c *Client) CreateBook(ctx context.Context, nb NewBook) (Book, error) {
	var book Book
	if err := c.do(ctx, http.MethodPost, "/books", nb, &book); err != nil {
		return Book{}, err
	}
	if book.ID < 0 {
		return Book{}, fmt.Errorf("service failed to store book %q", nb.Title)
	}
	return book, nil
}

// DeleteBook removes a book; a false answer becomes ErrNotFound.
func (c *Client) DeleteBook(ctx context.Context, id int) error {
	return c.deleteBool(ctx, fmt.Sprintf("/books/%d", id))
}

// CreateMember registers a member and returns it with its id.
func (c *Client) CreateMember(ctx context.Context, nm NewMember) (Member, error) {
	var member Member
	if err := c.do(ctx, http.MethodPost, "/members", nm, &member); err != nil {
		return Member{}, err
	}
	if member.ID < 0 {
		return Member{}, fmt.Errorf("service failed to register member %q", nm.Name)
	}
	return member, nil
}

// DeleteMember removes a member; a false answer becomes ErrNotFound.
func (c *Client) DeleteMember(ctx context.Context, id int) error {
	return c.deleteBool(ctx, fmt.Sprintf("/members/%d", id))
}

// CreateLoan registers a loan. The service signals a domain rejection with
// a negative id in the created record; that arrives here as ErrLoanRejected.
func (c *Client) CreateLoan(ctx context.Context, nl NewLoan) (Loan, error) {
	var loan Loan
	if err := c.do(ctx, http.MethodPost, "/loans", nl, &loan); err != nil {
		return Loan{}, err
	}
	if loan.ID < 0 {
		return Loan{}, ErrLoanRejected
	}
	return loan, nil
}

// ReturnLoan marks the loan returned; a false answer becomes ErrNotFound.
func (c *Client) ReturnLoan(ctx context.Context, id int) error {
	var ok bool
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/loans/%d/return", id), nil, &ok); err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (c *Client) deleteBool(ctx context.Context, path string) error {
	var ok bool
	if err := c.do(ctx, http.MethodDelete, path, nil, &ok); err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// do runs one request. Any non-2xx status is a failure regardless of body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("catalog service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("catalog service: %s %s: %s", method, path, resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
