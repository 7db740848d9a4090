package main

import (
	"fmt"
	"os"

	"library-admin/catalog"
)

const dbFile = "catalog.db"

func main() {
	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	dbFiles := []string{dbFile, dbFile + "-shm", dbFile + "-wal"}
	for _, file := range dbFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}

	db, err := catalog.NewDatabase(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	books := []catalog.NewBook{
		{Title: "1984", Author: "George Orwell", Category: "Fiction", Year: 1949, TotalCopies: 3},
		{Title: "Animal Farm", Author: "George Orwell", Category: "Fiction", Year: 1945, TotalCopies: 2},
		{Title: "The Art of War", Author: "Sun Tzu", Category: "Philosophy", Year: 1910, TotalCopies: 1},
		{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Category: "Fantasy", Year: 1954, TotalCopies: 2},
		{Title: "The Two Towers", Author: "J.R.R. Tolkien", Category: "Fantasy", Year: 1954, TotalCopies: 2},
		{Title: "The Return of the King", Author: "J.R.R. Tolkien", Category: "Fantasy", Year: 1955, TotalCopies: 2},
		{Title: "Romeo and Juliet", Author: "William Shakespeare", Category: "Drama", Year: 1597, TotalCopies: 4},
		{Title: "The Three Musketeers", Author: "Alexandre Dumas", Category: "Adventure", Year: 1844, TotalCopies: 1},
		{Title: "The Diary of a Young Girl", Author: "Anne Frank", Category: "Biography", Year: 1947, TotalCopies: 2},
	}

	members := []catalog.NewMember{
		{Name: "Amy Carter", Email: "amy.carter@example.com"},
		{Name: "Sam Okafor", Email: "sam.okafor@example.com"},
		{Name: "Lena Fischer", Email: "lena.fischer@example.com"},
		{Name: "Diego Ramos", Email: "diego.ramos@example.com"},
	}

	fmt.Println("Seeding books...")
	for _, nb := range books {
		book, err := db.CreateBook(nb)
		if err != nil {
			fmt.Printf("Error adding %q: %v\n", nb.Title, err)
			continue
		}
		fmt.Printf("  Added book ID %d: %s (%d copies)\n", book.ID, book.Title, book.TotalCopies)
	}

	fmt.Println("Seeding members...")
	for _, nm := range members {
		member, err := db.CreateMember(nm)
		if err != nil {
			fmt.Printf("Error adding %q: %v\n", nm.Name, err)
			continue
		}
		fmt.Printf("  Added member ID %d: %s\n", member.ID, member.Name)
	}

	fmt.Printf("Seed complete: %d books, %d members in %s\n", len(books), len(members), dbFile)
}
