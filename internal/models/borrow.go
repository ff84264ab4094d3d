package models

import "time"

// BorrowStatus is the loan lifecycle state.
type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "borrowed"
	StatusReturned BorrowStatus = "returned"
	StatusOverdue  BorrowStatus = "overdue" // reported only, never stored
)

// LoanPeriod is how long a copy may be kept.
const LoanPeriod = 14 * 24 * time.Hour

type Borrow struct {
	ID         string
	BookID     string
	UserID     string
	UserName   string
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     BorrowStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBorrow opens a loan at now, due after LoanPeriod.
func NewBorrow(id, bookID, userID, userName string, now time.Time) Borrow {
	return Borrow{
		ID:         id,
		BookID:     bookID,
		UserID:     userID,
		UserName:   userName,
		BorrowDate: now,
		DueDate:    now.Add(LoanPeriod),
		Status:     StatusBorrowed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// EffectiveStatus reports overdue for a loan still out past its due date.
func (b Borrow) EffectiveStatus(now time.Time) BorrowStatus {
	if b.Status == StatusBorrowed && now.After(b.DueDate) {
		return StatusOverdue
	}
	return b.Status
}

// BorrowView is a Borrow joined with its book's title and author for display.
type BorrowView struct {
	ID         string       `json:"id"`
	BookID     string       `json:"bookId"`
	UserID     string       `json:"userId"`
	UserName   string       `json:"userName"`
	BorrowDate time.Time    `json:"borrowDate"`
	DueDate    time.Time    `json:"dueDate"`
	ReturnDate *time.Time   `json:"returnDate"`
	Status     BorrowStatus `json:"status"`
	BookTitle  string       `json:"bookTitle"`
	BookAuthor string       `json:"bookAuthor"`
}

// View projects b at time now. A nil book leaves title and author empty.
func (b Borrow) View(book *Book, now time.Time) BorrowView {
	v := BorrowView{
		ID:         b.ID,
		BookID:     b.BookID,
		UserID:     b.UserID,
		UserName:   b.UserName,
		BorrowDate: b.BorrowDate,
		DueDate:    b.DueDate,
		ReturnDate: b.ReturnDate,
		Status:     b.EffectiveStatus(now),
	}
	if book != nil {
		v.BookTitle = book.Title
		v.BookAuthor = book.Author
	}
	return v
}
