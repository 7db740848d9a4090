package catalog

import (
	"github.com/gin-gonic/gin"
)

// Routes builds the gin engine with every catalog endpoint mounted.
func (s *Server) Routes() *gin.Engine {
	routes := gin.Default()

	routes.GET("/health", s.health)

	routes.GET("/books", s.listBooks)
	routes.POST("/books", s.createBook)
	routes.DELETE("/books/:id", s.deleteBook)
	routes.GET("/search", s.searchBooks)

	routes.GET("/members", s.listMembers)
	routes.POST("/members", s.createMember)
	routes.DELETE("/members/:id", s.deleteMember)

	routes.GET("/loans", s.listLoans)
	routes.POST("/loans", s.createLoan)
	routes.POST("/loans/:id/return", s.returnLoan)

	return routes
}
