package catalog

import (
	"fmt"
	"reflect"
	"testing"
)

var searchFixture = []Book{
	{ID: 1, Title: "1984", Author: "George Orwell", Category: "Fiction"},
	{ID: 2, Title: "Animal Farm", Author: "George Orwell", Category: "Satire"},
	{ID: 3, Title: "Brave New World", Author: "Aldous Huxley", Category: "Fiction"},
	{ID: 4, Title: "The Art of Computer Programming", Author: "Donald Knuth", Category: "Reference"},
}

func TestSearchBooksByField(t *testing.T) {
	cases := []struct {
		name  string
		mode  SearchMode
		query string
		want  []int
	}{
		{"title exact", SearchTitle, "1984", []int{1}},
		{"title substring", SearchTitle, "new", []int{3}},
		{"title case-insensitive", SearchTitle, "ANIMAL", []int{2}},
		{"author", SearchAuthor, "orwell", []int{1, 2}},
		{"category", SearchCategory, "fiction", []int{1, 3}},
		{"no match", SearchTitle, "dune", []int{}},
		{"empty query matches all", SearchAuthor, "", []int{1, 2, 3, 4}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SearchBooks(searchFixture, c.mode, c.query)
			ids := make([]int, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			if !reflect.DeepEqual(ids, c.want) {
				t.Fatalf("expected ids %v, got %v", c.want, ids)
			}
		})
	}
}

func TestParseSearchMode(t *testing.T) {
	cases := map[string]SearchMode{
		"title":    SearchTitle,
		"author":   SearchAuthor,
		"category": SearchCategory,
		"":         SearchTitle,
		"bogus":    SearchTitle,
	}
	for in, want := range cases {
		if got := ParseSearchMode(in); got != want {
			t.Fatalf("ParseSearchMode(%q) = %v, expected %v", in, got, want)
		}
	}
}

func TestSearchParallelMatchesSequential(t *testing.T) {
	// A snapshot large enough to span several chunks.
	books := make([]Book, 0, 500)
	for i := 0; i < 500; i++ {
		b := Book{ID: i + 1, Title: fmt.Sprintf("Book %d", i+1), Author: "Various", Category: "Misc"}
		if i%7 == 0 {
			b.Author = "George Orwell"
		}
		books = append(books, b)
	}

	for _, mode := range []SearchMode{SearchTitle, SearchAuthor, SearchCategory} {
		for _, query := range []string{"orwell", "book 4", "misc", "nothing-here"} {
			want := SearchBooks(books, mode, query)
			got := searchParallel(books, mode, query)
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("mode %v query %q: parallel and sequential disagree (%d vs %d rows)",
					mode, query, len(got), len(want))
			}
		}
	}
}

func TestSearchParallelEmptySnapshot(t *testing.T) {
	got := searchParallel(nil, SearchTitle, "anything")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected an empty slice, got %v", got)
	}
}
