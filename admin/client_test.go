package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientListBooks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/books" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Book{{ID: 1, Title: "1984", AvailableCopies: 2}})
	}))
	t.Cleanup(srv.Close)

	books, err := NewClient(srv.URL).ListBooks(context.Background())
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 1 || books[0].Title != "1984" {
		t.Fatalf("unexpected books: %v", books)
	}
}

func TestClientSearchSendsModeAndQuery(t *testing.T) {
	var gotMode, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMode = r.URL.Query().Get("mode")
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode([]Book{})
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).SearchBooks(context.Background(), SearchByAuthor, "sun tzu")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotMode != "author" || gotQuery != "sun tzu" {
		t.Fatalf("sent mode=%q q=%q", gotMode, gotQuery)
	}
}

func TestClientCreateLoanRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Wire sentinel for a rejected loan.
		json.NewEncoder(w).Encode(map[string]any{
			"id": -1, "book_id": 1, "member_id": 2,
			"borrowed_at": "0001-01-01T00:00:00",
			"due_at":      "0001-01-01T00:00:00",
			"returned_at": nil,
		})
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).CreateLoan(context.Background(), NewLoan{BookID: 1, MemberID: 2, DueDate: "2030-01-01"})
	if !errors.Is(err, ErrLoanRejected) {
		t.Fatalf("want ErrLoanRejected, got %v", err)
	}
}

func TestClientCreateLoanSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var nl NewLoan
		if err := json.NewDecoder(r.Body).Decode(&nl); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if nl.BookID != 1 || nl.MemberID != 2 || nl.DueDate != "2030-01-01" {
			t.Fatalf("unexpected payload: %+v", nl)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": 5, "book_id": 1, "member_id": 2,
			"borrowed_at": "2024-01-01T10:00:00",
			"due_at":      "2030-01-01T00:00:00",
			"returned_at": nil,
		})
	}))
	t.Cleanup(srv.Close)

	loan, err := NewClient(srv.URL).CreateLoan(context.Background(), NewLoan{BookID: 1, MemberID: 2, DueDate: "2030-01-01"})
	if err != nil {
		t.Fatalf("create loan: %v", err)
	}
	if loan.ID != 5 || loan.ReturnedAt != nil {
		t.Fatalf("unexpected loan: %+v", loan)
	}
}

func TestClientDeleteBoolAnswers(t *testing.T) {
	answer := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method %s", r.Method)
		}
		json.NewEncoder(w).Encode(answer)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	if err := c.DeleteBook(context.Background(), 1); err != nil {
		t.Fatalf("delete true: %v", err)
	}

	answer = false
	if err := c.DeleteBook(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete false: want ErrNotFound, got %v", err)
	}
}

func TestClientReturnLoan(t *testing.T) {
	answer := true
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(answer)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	if err := c.ReturnLoan(context.Background(), 7); err != nil {
		t.Fatalf("return true: %v", err)
	}
	if gotPath != "/loans/7/return" {
		t.Fatalf("hit %s", gotPath)
	}

	answer = false
	if err := c.ReturnLoan(context.Background(), 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("return false: want ErrNotFound, got %v", err)
	}
}

func TestClientNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	if _, err := c.ListBooks(context.Background()); err == nil {
		t.Fatal("want error on 500")
	}
	if err := c.DeleteMember(context.Background(), 1); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("500 must be a transport error, not ErrNotFound: %v", err)
	}
}
