package catalog

import (
	"runtime"
	"strings"
	"sync"
)

// SearchMode selects which book field a search matches against.
type SearchMode int

const (
	SearchTitle SearchMode = iota
	SearchAuthor
	SearchCategory
)

// ParseSearchMode maps the ?mode= query value to a SearchMode. Anything
// unrecognized falls back to title search.
func ParseSearchMode(s string) SearchMode {
	switch s {
	case "author":
		return SearchAuthor
	case "category":
		return SearchCategory
	default:
		return SearchTitle
	}
}

// SearchBooks filters books whose selected field contains query,
// case-insensitively. Pure function: no IO, inputs untouched, input order
// preserved.
func SearchBooks(books []Book, mode SearchMode, query string) []Book {
	q := strings.ToLower(query)

	out := make([]Book, 0)
	for _, b := range books {
		var field string
		switch mode {
		case SearchAuthor:
			field = b.Author
		case SearchCategory:
			field = b.Category
		default:
			field = b.Title
		}
		if strings.Contains(strings.ToLower(field), q) {
			out = append(out, b)
		}
	}
	return out
}

// searchParallel fans SearchBooks out over CPU-count chunks of the
// snapshot and stitches the partial results back in chunk order, so the
// output matches a sequential scan.
func searchParallel(books []Book, mode SearchMode, query string) []Book {
	if len(books) == 0 {
		return []Book{}
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	chunkSize := (len(books) + workers - 1) / workers

	var (
		parts = make([][]Book, 0, workers)
		wg    sync.WaitGroup
	)
	for start := 0; start < len(books); start += chunkSize {
		end := start + chunkSize
		if end > len(books) {
			end = len(books)
		}
		parts = append(parts, nil)
		wg.Add(1)
		go func(slot int, chunk []Book) {
			defer wg.Done()
			parts[slot] = SearchBooks(chunk, mode, query)
		}(len(parts)-1, books[start:end])
	}
	wg.Wait()

	out := make([]Book, 0)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
