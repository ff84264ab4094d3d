package handlers

import (
	"net/http"

	"library_backend/internal/models"

	"github.com/gin-gonic/gin"
)

type bookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Category    string `json:"category"`
	Copies      int    `json:"copies"`
	Description string `json:"description"`
}

func (r bookRequest) toInput() models.BookInput {
	return models.BookInput{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Category:    r.Category,
		Copies:      r.Copies,
		Description: r.Description,
	}
}

// @Summary      List books
// @Tags         books
// @Produce      json
// @Success      200  {array}   models.Book
// @Failure      500  {object}  map[string]string
// @Router       /api/library/books [get]
func (h *Handler) listBooks(c *gin.Context) {
	books, err := h.services.ListBooks(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "books_list_failed")
		return
	}
	c.JSON(http.StatusOK, books)
}

// @Summary      Search books by title or author
// @Tags         books
// @Produce      json
// @Param        query  query     string  false  "Case-insensitive substring"
// @Success      200    {array}   models.Book
// @Router       /api/library/books/search [get]
func (h *Handler) searchBooks(c *gin.Context) {
	query := c.Query("query")
	books, err := h.services.SearchBooks(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err, "books_search_failed", "query", query)
		return
	}
	c.JSON(http.StatusOK, books)
}

// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book ID"
// @Success      200  {object}  models.Book
// @Failure      404  {object}  map[string]string
// @Router       /api/library/books/{id} [get]
func (h *Handler) getBook(c *gin.Context) {
	book, err := h.services.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "book_get_failed", "book_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, book)
}

// @Summary      Add a book
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      bookRequest  true  "Book"
// @Success      200   {object}  models.Book
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/library/admin/books [post]
// @Security     BearerAuth
func (h *Handler) createBook(c *gin.Context) {
	var input bookRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	book, err := h.services.AddBook(c.Request.Context(), identity(c), input.toInput())
	if err != nil {
		h.respondError(c, err, "book_create_failed", "isbn", input.ISBN)
		return
	}
	c.JSON(http.StatusOK, book)
}

// @Summary      Update a book
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Book ID"
// @Param        body  body      bookRequest  true  "Book"
// @Success      200   {object}  models.Book
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/library/admin/books/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateBook(c *gin.Context) {
	var input bookRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	book, err := h.services.UpdateBook(c.Request.Context(), identity(c), c.Param("id"), input.toInput())
	if err != nil {
		h.respondError(c, err, "book_update_failed", "book_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, book)
}

// @Summary      Delete a book
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Book ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/library/admin/books/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteBook(c *gin.Context) {
	if err := h.services.DeleteBook(c.Request.Context(), identity(c), c.Param("id")); err != nil {
		h.respondError(c, err, "book_delete_failed", "book_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
