package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testServer(t *testing.T) (*gin.Engine, *Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDatabase failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewServer(db).Routes(), db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	engine, _ := testServer(t)
	rec := doJSON(t, engine, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateAndListBooks(t *testing.T) {
	engine, _ := testServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/books", NewBook{
		Title: "1984", Author: "George Orwell", Category: "Fiction", Year: 1949, TotalCopies: 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created Book
	decodeInto(t, rec, &created)
	if created.ID <= 0 || created.AvailableCopies != 2 {
		t.Fatalf("unexpected created book: %+v", created)
	}

	rec = doJSON(t, engine, http.MethodGet, "/books", nil)
	var books []Book
	decodeInto(t, rec, &books)
	if len(books) != 1 || books[0].Title != "1984" {
		t.Fatalf("unexpected book list: %+v", books)
	}
}

func TestCreateBookRejectsMissingTitle(t *testing.T) {
	engine, _ := testServer(t)
	rec := doJSON(t, engine, http.MethodPost, "/books", map[string]any{
		"author": "Anon", "category": "c", "year": 2000, "total_copies": 1,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteBookBooleanBody(t *testing.T) {
	engine, db := testServer(t)
	book := seedBook(t, db, 1)

	var ok bool
	decodeInto(t, doJSON(t, engine, http.MethodDelete, "/books/"+strconv.Itoa(book.ID), nil), &ok)
	if !ok {
		t.Fatal("expected true for an existing book")
	}
	decodeInto(t, doJSON(t, engine, http.MethodDelete, "/books/9999", nil), &ok)
	if ok {
		t.Fatal("expected false for a missing book")
	}
}

func TestSearchEndpoint(t *testing.T) {
	engine, db := testServer(t)
	seedBook(t, db, 1)
	if _, err := db.CreateBook(NewBook{
		Title: "Brave New World", Author: "Aldous Huxley", Category: "Fiction", Year: 1932, TotalCopies: 1,
	}); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}

	rec := doJSON(t, engine, http.MethodGet, "/search?mode=author&q=orwell", nil)
	var books []Book
	decodeInto(t, rec, &books)
	if len(books) != 1 || books[0].Author != "George Orwell" {
		t.Fatalf("unexpected search answer: %+v", books)
	}

	// No matches still answers an array, never null.
	rec = doJSON(t, engine, http.MethodGet, "/search?mode=title&q=dune", nil)
	if rec.Body.String() != "[]" {
		t.Fatalf("expected [], got %q", rec.Body.String())
	}
}

func TestCreateLoanRejectionBody(t *testing.T) {
	engine, db := testServer(t)
	book := seedBook(t, db, 1)
	member := seedMember(t, db)

	// Borrow the only copy, leaving nothing on the shelf.
	if _, err := db.CreateLoan(NewLoan{BookID: book.ID, MemberID: member.ID, DueDate: "2999-01-01"}); err != nil {
		t.Fatalf("CreateLoan failed: %v", err)
	}

	rec := doJSON(t, engine, http.MethodPost, "/loans", NewLoan{
		BookID: book.ID, MemberID: member.ID, DueDate: "2999-01-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("rejection must still be a 200, got %d", rec.Code)
	}
	var loan Loan
	decodeInto(t, rec, &loan)
	if loan.ID != -1 {
		t.Fatalf("expected sentinel id -1, got %d", loan.ID)
	}
	if loan.BookID != book.ID || loan.MemberID != member.ID {
		t.Fatalf("sentinel must echo the request ids: %+v", loan)
	}
	// The sentinel timestamps must parse under the wire layout.
	for _, stamp := range []string{loan.BorrowedAt, loan.DueAt} {
		if _, err := time.Parse(timeLayout, stamp); err != nil {
			t.Fatalf("unparseable sentinel stamp %q: %v", stamp, err)
		}
	}
}

func TestLoanRoundTripOverHTTP(t *testing.T) {
	engine, db := testServer(t)
	book := seedBook(t, db, 1)
	member := seedMember(t, db)

	rec := doJSON(t, engine, http.MethodPost, "/loans", NewLoan{
		BookID: book.ID, MemberID: member.ID, DueDate: "2999-01-01",
	})
	var loan Loan
	decodeInto(t, rec, &loan)
	if loan.ID <= 0 || loan.ReturnedAt != nil {
		t.Fatalf("unexpected loan: %+v", loan)
	}

	var ok bool
	decodeInto(t, doJSON(t, engine, http.MethodPost, "/loans/"+strconv.Itoa(loan.ID)+"/return", nil), &ok)
	if !ok {
		t.Fatal("expected a successful return")
	}
	decodeInto(t, doJSON(t, engine, http.MethodPost, "/loans/"+strconv.Itoa(loan.ID)+"/return", nil), &ok)
	if ok {
		t.Fatal("expected false on repeat return")
	}
}

func TestBadIDsAnswer400(t *testing.T) {
	engine, _ := testServer(t)
	for _, req := range []struct{ method, path string }{
		{http.MethodDelete, "/books/abc"},
		{http.MethodDelete, "/members/abc"},
		{http.MethodPost, "/loans/abc/return"},
	} {
		rec := doJSON(t, engine, req.method, req.path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", req.method, req.path, rec.Code)
		}
	}
}
