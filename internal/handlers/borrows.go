package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type borrowRequest struct {
	BookID   string `json:"bookId"`
	UserName string `json:"userName"`
}

// @Summary      Borrow a book
// @Tags         borrows
// @Accept       json
// @Produce      json
// @Param        body  body      borrowRequest  true  "Loan request"
// @Success      200   {object}  models.BorrowView
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/library/borrows [post]
// @Security     BearerAuth
func (h *Handler) borrowBook(c *gin.Context) {
	var input borrowRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}
	bookID := strings.TrimSpace(input.BookID)
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookId is required"})
		return
	}

	who := identity(c)
	loan, err := h.services.Borrow(c.Request.Context(), who, bookID, input.UserName)
	if err != nil {
		h.respondError(c, err, "borrow_failed", "book_id", bookID, "user_id", who.UserID)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// @Summary      Return a borrowed book
// @Tags         borrows
// @Produce      json
// @Param        id   path      string  true  "Borrow ID"
// @Success      200  {object}  models.BorrowView
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/library/borrows/{id}/return [put]
// @Security     BearerAuth
func (h *Handler) returnBook(c *gin.Context) {
	who := identity(c)
	loan, err := h.services.ReturnBook(c.Request.Context(), who, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "return_failed", "borrow_id", c.Param("id"), "user_id", who.UserID)
		return
	}
	c.JSON(http.StatusOK, loan)
}

// @Summary      List my loans
// @Tags         borrows
// @Produce      json
// @Success      200  {array}   models.BorrowView
// @Router       /api/library/borrows/my [get]
// @Security     BearerAuth
func (h *Handler) myBorrows(c *gin.Context) {
	loans, err := h.services.ListForUser(c.Request.Context(), identity(c))
	if err != nil {
		h.respondError(c, err, "borrows_my_failed")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// @Summary      List all loans
// @Tags         admin
// @Produce      json
// @Success      200  {array}   models.BorrowView
// @Failure      403  {object}  map[string]string
// @Router       /api/library/admin/borrows [get]
// @Security     BearerAuth
func (h *Handler) allBorrows(c *gin.Context) {
	loans, err := h.services.ListAll(c.Request.Context(), identity(c))
	if err != nil {
		h.respondError(c, err, "borrows_all_failed")
		return
	}
	c.JSON(http.StatusOK, loans)
}
