package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/bookmind/internal/services"
)

type BookHandler struct {
	books services.BookLookup
}

func NewBookHandler(books services.BookLookup) *BookHandler {
	return &BookHandler{books: books}
}

func (h *BookHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("title"))
	data := gin.H{"Title": "Find a book", "Query": query}

	if query != "" {
		info, ok := h.books.Lookup(c.Request.Context(), query)
		if ok {
			data["Book"] = info
		} else {
			data["NotFound"] = true
		}
	}
	render(c, http.StatusOK, "search.html", data)
}
