package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var (
	// ErrNoCopies rejects a loan when every copy is already out.
	ErrNoCopies = errors.New("no available copies")

	// ErrInvalidDueDate rejects a loan whose due date does not parse as
	// YYYY-MM-DD or lies in the past.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrUnknownBook rejects a loan against a book id that does not exist.
	ErrUnknownBook = errors.New("unknown book")
)

// IsRejection reports whether err is a domain rejection of a loan rather
// than a storage failure. The HTTP layer maps rejections to the wire
// sentinel; everything else becomes a server error.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNoCopies) ||
		errors.Is(err, ErrInvalidDueDate) ||
		errors.Is(err, ErrUnknownBook)
}

// Database provides high-level helpers around a SQLite connection.
type Database struct {
	db *sql.DB

	addBookStmt   *sql.Stmt
	addMemberStmt *sql.Stmt

	now func() time.Time
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies
// schema migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db, now: time.Now}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	if d.addMemberStmt != nil {
		d.addMemberStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            category TEXT NOT NULL,
            year INTEGER NOT NULL,
            total_copies INTEGER NOT NULL,
            available_copies INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS members (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            joined_at TEXT NOT NULL
        );`,
		// No foreign keys on loans: deleting a book or member keeps its
		// loan history, which the console renders with id placeholders.
		`CREATE TABLE IF NOT EXISTS loans (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            book_id INTEGER NOT NULL,
            member_id INTEGER NOT NULL,
            borrowed_at TEXT NOT NULL,
            due_at TEXT NOT NULL,
            returned_at TEXT
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Prepare(
		`INSERT INTO books(title,author,category,year,total_copies,available_copies) VALUES(?,?,?,?,?,?)`,
	); err != nil {
		return err
	}
	if d.addMemberStmt, err = d.db.Prepare(
		`INSERT INTO members(name,email,joined_at) VALUES(?,?,?)`,
	); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// ListBooks returns every book ordered by id.
func (d *Database) ListBooks() ([]Book, error) {
	rows, err := d.db.Query(`SELECT id,title,author,category,year,total_copies,available_copies FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]Book, 0)
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Year, &b.TotalCopies, &b.AvailableCopies); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// GetBook fetches a single book.
func (d *Database) GetBook(id int) (*Book, error) {
	var b Book
	err := d.db.QueryRow(`SELECT id,title,author,category,year,total_copies,available_copies FROM books WHERE id=?`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.Year, &b.TotalCopies, &b.AvailableCopies)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook inserts a book with every copy on the shelf and returns the
// stored row.
func (d *Database) CreateBook(nb NewBook) (Book, error) {
	res, err := d.addBookStmt.Exec(nb.Title, nb.Author, nb.Category, nb.Year, nb.TotalCopies, nb.TotalCopies)
	if err != nil {
		return Book{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Book{}, err
	}
	book, err := d.GetBook(int(id))
	if err != nil {
		return Book{}, err
	}
	return *book, nil
}

// DeleteBook removes the row and reports whether anything was deleted.
func (d *Database) DeleteBook(id int) (bool, error) {
	res, err := d.db.Exec(`DELETE FROM books WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

// ListMembers returns every member ordered by id.
func (d *Database) ListMembers() ([]Member, error) {
	rows, err := d.db.Query(`SELECT id,name,email,joined_at FROM members ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetMember fetches a single member.
func (d *Database) GetMember(id int) (*Member, error) {
	var m Member
	err := d.db.QueryRow(`SELECT id,name,email,joined_at FROM members WHERE id=?`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMember inserts a member stamped with the current time and returns
// the stored row.
func (d *Database) CreateMember(nm NewMember) (Member, error) {
	res, err := d.addMemberStmt.Exec(nm.Name, nm.Email, d.now().Format(timeLayout))
	if err != nil {
		return Member{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Member{}, err
	}
	member, err := d.GetMember(int(id))
	if err != nil {
		return Member{}, err
	}
	return *member, nil
}

// DeleteMember removes the row and reports whether anything was deleted.
func (d *Database) DeleteMember(id int) (bool, error) {
	res, err := d.db.Exec(`DELETE FROM members WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

// ListLoans returns every loan ordered by id.
func (d *Database) ListLoans() ([]Loan, error) {
	rows, err := d.db.Query(`SELECT id,book_id,member_id,borrowed_at,due_at,returned_at FROM loans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]Loan, 0)
	for rows.Next() {
		var l Loan
		var returned sql.NullString
		if err := rows.Scan(&l.ID, &l.BookID, &l.MemberID, &l.BorrowedAt, &l.DueAt, &returned); err != nil {
			return nil, err
		}
		if returned.Valid {
			l.ReturnedAt = &returned.String
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// GetLoan fetches a single loan.
func (d *Database) GetLoan(id int) (*Loan, error) {
	var l Loan
	var returned sql.NullString
	err := d.db.QueryRow(`SELECT id,book_id,member_id,borrowed_at,due_at,returned_at FROM loans WHERE id=?`, id).
		Scan(&l.ID, &l.BookID, &l.MemberID, &l.BorrowedAt, &l.DueAt, &returned)
	if err != nil {
		return nil, err
	}
	if returned.Valid {
		l.ReturnedAt = &returned.String
	}
	return &l, nil
}

// CreateLoan validates the due date, checks stock, records the loan and
// decrements the book's available copies, all in one transaction.
// Rejections come back as ErrInvalidDueDate, ErrUnknownBook or ErrNoCopies.
func (d *Database) CreateLoan(nl NewLoan) (Loan, error) {
	due, err := time.Parse(dateLayout, nl.DueDate)
	if err != nil {
		return Loan{}, fmt.Errorf("%w: %q", ErrInvalidDueDate, nl.DueDate)
	}
	y, m, day := d.now().UTC().Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	if due.Before(today) {
		return Loan{}, fmt.Errorf("%w: %s is in the past", ErrInvalidDueDate, nl.DueDate)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return Loan{}, err
	}
	defer tx.Rollback()

	var available int
	err = tx.QueryRow(`SELECT available_copies FROM books WHERE id=?`, nl.BookID).Scan(&available)
	if err == sql.ErrNoRows {
		return Loan{}, fmt.Errorf("%w: %d", ErrUnknownBook, nl.BookID)
	}
	if err != nil {
		return Loan{}, err
	}
	if available <= 0 {
		return Loan{}, fmt.Errorf("%w: book %d", ErrNoCopies, nl.BookID)
	}

	res, err := tx.Exec(`INSERT INTO loans(book_id,member_id,borrowed_at,due_at) VALUES(?,?,?,?)`,
		nl.BookID, nl.MemberID, d.now().Format(timeLayout), due.Format(timeLayout))
	if err != nil {
		return Loan{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Loan{}, err
	}

	if _, err := tx.Exec(`UPDATE books SET available_copies = available_copies - 1 WHERE id=?`, nl.BookID); err != nil {
		return Loan{}, err
	}

	var loan Loan
	var returned sql.NullString
	err = tx.QueryRow(`SELECT id,book_id,member_id,borrowed_at,due_at,returned_at FROM loans WHERE id=?`, id).
		Scan(&loan.ID, &loan.BookID, &loan.MemberID, &loan.BorrowedAt, &loan.DueAt, &returned)
	if err != nil {
		return Loan{}, err
	}
	if returned.Valid {
		loan.ReturnedAt = &returned.String
	}

	return loan, tx.Commit()
}

// ReturnLoan marks the loan returned and puts the copy back on the shelf.
// A loan that does not exist or was already returned answers false; the
// returned_at guard keeps the transition one-shot so available_copies
// never climbs past total_copies.
func (d *Database) ReturnLoan(id int) (bool, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var bookID int
	err = tx.QueryRow(`SELECT book_id FROM loans WHERE id=? AND returned_at IS NULL`, id).Scan(&bookID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(`UPDATE loans SET returned_at=? WHERE id=?`, d.now().Format(timeLayout), id); err != nil {
		return false, err
	}
	if _, err := tx.Exec(`UPDATE books SET available_copies = available_copies + 1 WHERE id=?`, bookID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}
