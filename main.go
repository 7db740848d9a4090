package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"library-admin/admin"
	"library-admin/catalog"

	"github.com/spf13/cobra"
)

var (
	serverURL  string
	dbPath     string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "libadmin",
	Short: "Library administration console and catalog service",
	Long: `libadmin is the staff console for a small library: it lists books,
members and loans, registers and returns loans, and searches the catalog
against a remote catalog service. The same binary can also run the catalog
service itself.`,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run the interactive admin console",
	Run: func(cmd *cobra.Command, args []string) {
		runConsole()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog service",
	Run: func(cmd *cobra.Command, args []string) {
		runServe()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Base URL of the catalog service")
	serveCmd.Flags().StringVar(&dbPath, "db", "catalog.db", "Path to the catalog SQLite database")
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8000", "Listen address")
	rootCmd.AddCommand(consoleCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe() {
	db, err := catalog.NewDatabase(dbPath)
	if err != nil {
		log.Fatalf("open catalog database: %v", err)
	}
	defer db.Close()

	server := catalog.NewServer(db)
	log.Printf("catalog service listening on %s (db: %s)", listenAddr, dbPath)
	if err := server.Routes().Run(listenAddr); err != nil {
		log.Fatalf("catalog service: %v", err)
	}
}

func runConsole() {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)

	session := admin.NewSession(
		admin.NewClient(serverURL),
		&admin.TerminalConfirmer{In: scanner, Out: os.Stdout},
	)

	fmt.Printf("Library admin console (catalog at %s)\n", serverURL)
	if err := session.Refresh(ctx); err != nil {
		fmt.Printf("Warning: could not load catalog: %v\n", err)
		fmt.Println("Use 'refresh' once the catalog service is reachable.")
	}

	fmt.Println("Available commands:")
	fmt.Println("  Views: dashboard, list books, list members, list loans")
	fmt.Println("  Search: search books, search members")
	fmt.Println("  Books/Members: add book, delete book, add member, delete member")
	fmt.Println("  Loans: new loan, return loan")
	fmt.Println("  System: refresh, exit")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "dashboard":
			handleDashboard(session)
		case "list books":
			printBooks(session.Books)
		case "list members":
			printMembers(session.Members)
		case "list loans":
			printLoans(session.LoanRows())
		case "search books":
			handleSearchBooks(ctx, scanner, session)
		case "search members":
			handleSearchMembers(scanner, session)
		case "add book":
			handleAddBook(ctx, scanner, session)
		case "delete book":
			handleDeleteBook(ctx, scanner, session)
		case "add member":
			handleAddMember(ctx, scanner, session)
		case "delete member":
			handleDeleteMember(ctx, scanner, session)
		case "new loan":
			handleNewLoan(ctx, scanner, session)
		case "return loan":
			handleReturnLoan(ctx, scanner, session)
		case "refresh":
			if err := session.Refresh(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
			} else {
				fmt.Println("Catalog reloaded.")
			}
		case "exit":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
}

func handleDashboard(session *admin.Session) {
	sum := session.Summary()
	fmt.Println("Dashboard")
	fmt.Println(strings.Repeat("-", 30))
	fmt.Printf("%-15s %d\n", "Books", sum.Books)
	fmt.Printf("%-15s %d\n", "Members", sum.Members)
	fmt.Printf("%-15s %d\n", "Active loans", sum.ActiveLoans)
	fmt.Printf("%-15s %d\n", "Late loans", sum.LateLoans)
}

func handleSearchBooks(ctx context.Context, sc *bufio.Scanner, session *admin.Session) {
	fmt.Print("Mode (title/author/category, default title): ")
	if !sc.Scan() {
		return
	}
	mode := admin.SearchMode(strings.TrimSpace(sc.Text()))
	switch mode {
	case admin.SearchByAuthor, admin.SearchByCategory:
	default:
		mode = admin.SearchByTitle
	}

	fmt.Print("Query: ")
	if !sc.Scan() {
		return
	}
	query := sc.Text()

	books, err := session.SearchBooks(ctx, mode, query)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(books) == 0 {
		fmt.Printf("No books found matching '%s'.\n", strings.TrimSpace(query))
		return
	}
	printBooks(books)
}

func handleSearchMembers(sc *bufio.Scanner, session *admin.Session) {
	fmt.Print("Query: ")
	if !sc.Scan() {
		return
	}
	members := session.SearchMembers(sc.Text())
	if len(members) == 0 {
		fmt.Println("No members match.")
		return
	}
	printMembers(members)
}

func handleAddBook(ctx context.Context, sc *bufio.Scanner, session *admin.Session) {
	nb := admin.NewBook{}

	fmt.Print("Title: ")
	if !sc.Scan() {
		return
	}
	nb.Title = strings.TrimSpace(sc.Text())

	fmt.Print("Author: ")
	if !sc.Scan() {
		return
	}
	nb.Author = strings.TrimSpace(sc.Text())

	fmt.Print("Category: ")
	if !sc.Scan() {
		return
	}
	nb.Category = strings.TrimSpace(sc.Text())

	fmt.Print("Year: ")
	if !sc.Scan() {
		return
	}
	nb.Year, _ = strconv.Atoi(strings.TrimSpace(sc.Text()))

	fmt.Print("Total copies: ")
	if !sc.Scan() {
		return
	}
	nb.TotalCopies, _ = strconv.Atoi(strings.TrimSpace(sc.Text()))

	book, err := session.AddBook(ctx, nb)
	if err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Printf("Added book ID %d: %s\n", book.ID, book.Title)
}

func handleAddMember(ctx context.Context, sc *bufio.Scanner, session *admin.Session) {
	nm := admin.NewMember{}

	fmt.Print("Name: ")
	if !sc.Scan() {
		return
	}
	nm.Name = strings.TrimSpace(sc.Text())

	fmt.Print("Email: ")
	if !sc.Scan() {
		return
	}
	nm.Email = strings.TrimSpace(sc.Text())

	member, err := session.AddMember(ctx, nm)
	if err != nil {
		fmt.Printf("Error adding member: %v\n", err)
		return
	}
	fmt.Printf("Added member '%s' with ID %d\n", member.Name, member.ID)
}

func handleDeleteBook(ctx context.Context, sc *bufio.Scanner, session *admin.Session) {
	id, ok := promptID(sc, "Book ID: ")
	if !ok {
		return
	}
	switch err := session.RemoveBook(ctx, id); {
	case errors.Is(err, admin.ErrCanceled):
		fmt.Println("Cancelled.")
	case errors.Is(err, admin.ErrNotFound):
		fmt.Printf("Book %d not found or could not be deleted.\n", id)
	case err != nil:
		fmt.Printf("Error deleting book: %v\n", err)
	default:
		fmt.Printf("Book %d deleted.\n", id)
	}
}

func handleDeleteMember(ctx context.Context, sc *bufio.Scanner, session *admin.Session) {
	id, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}
	switch err := session.RemoveMember(ctx, id); {
	case errors.Is(err, admin.ErrCanceled):
		fmt.Println("Cancelled.")
	case errors.Is(err, admin.ErrNotFound):
		fmt.Printf("Member %d not found or could not be deleted.\n", id)
	case err != nil:
		fmt.Printf("Error deleting member: %v\n", err)
	default:
		fmt.Printf("Member %d deleted.\n", id)
	}
}

func handleNewLoan(ctx context.Context, sc *bufio.Scanner, session *admin.Session) {
	loanable := session.LoanableBooks()
	if len(loanable) == 0 {
		fmt.Println("No books with available copies.")
		return
	}
	fmt.Println("Loanable books:")
	printBooks(loanable)

	bookID, ok := promptID(sc, "Book ID: ")
	if !ok {
		return
	}
	memberID, ok := promptID(sc, "Member ID: ")
	if !ok {
		return
	}

	fmt.Print("Due date (YYYY-MM-DD): ")
	if !sc.Scan() {
		return
	}
	dueDate := strings.TrimSpace(sc.Text())

	loan, err := session.BorrowBook(ctx, memberID, bookID, dueDate)
	switch {
	case errors.Is(err, admin.ErrLoanRejected):
		fmt.Printf("Loan rejected: %v\n", err)
	case err != nil:
		fmt.Printf("Error registering loan: %v\n", err)
	default:
		fmt.Printf("Loan %d registered, due %s.\n", loan.ID, dueDate)
	}
}

func handleReturnLoan(ctx context.Context, sc *bufio.Scanner, session *admin.Session) {
	open := make([]admin.EnrichedLoan, 0)
	for _, row := range session.LoanRows() {
		if row.Status != admin.StatusReturned {
			open = append(open, row)
		}
	}
	if len(open) == 0 {
		fmt.Println("No open loans.")
		return
	}
	fmt.Println("Open loans:")
	printLoans(open)

	id, ok := promptID(sc, "Loan ID: ")
	if !ok {
		return
	}
	switch err := session.ReturnLoan(ctx, id); {
	case errors.Is(err, admin.ErrCanceled):
		fmt.Println("Cancelled.")
	case errors.Is(err, admin.ErrNotFound):
		fmt.Printf("Loan %d not found or already returned.\n", id)
	case err != nil:
		fmt.Printf("Error returning loan: %v\n", err)
	default:
		fmt.Printf("Loan %d returned.\n", id)
	}
}

func promptID(sc *bufio.Scanner, prompt string) (int, bool) {
	fmt.Print(prompt)
	if !sc.Scan() {
		return 0, false
	}
	text := strings.TrimSpace(sc.Text())
	id, err := strconv.Atoi(text)
	if err != nil || id <= 0 {
		fmt.Printf("Invalid ID: %s\n", text)
		return 0, false
	}
	return id, true
}

func printBooks(books []admin.Book) {
	if len(books) == 0 {
		fmt.Println("No books in catalog.")
		return
	}
	fmt.Printf("%-5s %-30s %-22s %-15s %-6s %-6s %-6s\n", "ID", "Title", "Author", "Category", "Year", "Avail", "Total")
	fmt.Println(strings.Repeat("-", 95))
	for _, b := range books {
		fmt.Printf("%-5d %-30s %-22s %-15s %-6d %-6d %-6d\n",
			b.ID,
			truncateString(b.Title, 30),
			truncateString(b.Author, 22),
			truncateString(b.Category, 15),
			b.Year,
			b.AvailableCopies,
			b.TotalCopies)
	}
}

func printMembers(members []admin.Member) {
	if len(members) == 0 {
		fmt.Println("No members registered.")
		return
	}
	fmt.Printf("%-5s %-25s %-30s %-20s\n", "ID", "Name", "Email", "Joined")
	fmt.Println(strings.Repeat("-", 85))
	for _, m := range members {
		fmt.Printf("%-5d %-25s %-30s %-20s\n",
			m.ID,
			truncateString(m.Name, 25),
			truncateString(m.Email, 30),
			m.JoinedAt.Time().Format("2006-01-02"))
	}
}

func printLoans(rows []admin.EnrichedLoan) {
	if len(rows) == 0 {
		fmt.Println("No loans recorded.")
		return
	}
	fmt.Printf("%-5s %-30s %-25s %-12s %-12s %-10s\n", "ID", "Book", "Member", "Borrowed", "Due", "Status")
	fmt.Println(strings.Repeat("-", 100))
	for _, row := range rows {
		status := string(row.Status)
		if row.Late {
			status += " (!)"
		}
		fmt.Printf("%-5d %-30s %-25s %-12s %-12s %-10s\n",
			row.ID,
			truncateString(row.BookTitle, 30),
			truncateString(row.MemberName, 25),
			row.BorrowedAt.Time().Format("2006-01-02"),
			row.DueAt.Time().Format("2006-01-02"),
			status)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
