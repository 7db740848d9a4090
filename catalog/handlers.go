package catalog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Server exposes the catalog database over HTTP.
type Server struct {
	db *Database
}

// NewServer wraps the database in the HTTP layer.
func NewServer(db *Database) *Server {
	return &Server{db: db}
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK - library catalog service")
}

// ------------------ Books ------------------

func (s *Server) listBooks(c *gin.Context) {
	books, err := s.db.ListBooks()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func (s *Server) createBook(c *gin.Context) {
	var nb NewBook
	if err := c.ShouldBindJSON(&nb); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	book, err := s.db.CreateBook(nb)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *Server) deleteBook(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	ok, err := s.db.DeleteBook(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	// Bare boolean body: true iff a row was removed.
	c.JSON(http.StatusOK, ok)
}

func (s *Server) searchBooks(c *gin.Context) {
	mode := ParseSearchMode(c.Query("mode"))
	query := c.Query("q")

	snapshot, err := s.db.ListBooks()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, searchParallel(snapshot, mode, query))
}

// ------------------ Members ------------------

func (s *Server) listMembers(c *gin.Context) {
	members, err := s.db.ListMembers()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, members)
}

func (s *Server) createMember(c *gin.Context) {
	var nm NewMember
	if err := c.ShouldBindJSON(&nm); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	member, err := s.db.CreateMember(nm)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, member)
}

func (s *Server) deleteMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	ok, err := s.db.DeleteMember(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ok)
}

// ------------------ Loans ------------------

func (s *Server) listLoans(c *gin.Context) {
	loans, err := s.db.ListLoans()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loans)
}

func (s *Server) createLoan(c *gin.Context) {
	var nl NewLoan
	if err := c.ShouldBindJSON(&nl); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	loan, err := s.db.CreateLoan(nl)
	if IsRejection(err) {
		// Wire contract: a rejected loan is a 200 with a negative id.
		// Timestamps carry the zero instant so the body still parses.
		zero := time.Time{}.Format(timeLayout)
		c.JSON(http.StatusOK, Loan{
			ID:         -1,
			BookID:     nl.BookID,
			MemberID:   nl.MemberID,
			BorrowedAt: zero,
			DueAt:      zero,
		})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

func (s *Server) returnLoan(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	ok, err := s.db.ReturnLoan(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ok)
}
