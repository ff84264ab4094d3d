package models

import (
	"strings"
	"time"
)

// Book is a catalog entry. Available is maintained by the borrow ledger and by
// copy-count edits; it always stays within [0, Copies].
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	Category    string    `json:"category"`
	Copies      int       `json:"copies"`
	Available   int       `json:"available"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookInput is the editable part of a Book.
type BookInput struct {
	Title       string
	Author      string
	ISBN        string
	Category    string
	Copies      int
	Description string
}

func (in BookInput) Validate() (BookInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Title == "":
		return in, invalid("title", "is required")
	case in.Author == "":
		return in, invalid("author", "is required")
	case in.ISBN == "":
		return in, invalid("isbn", "is required")
	case in.Category == "":
		return in, invalid("category", "is required")
	case in.Copies < 1:
		return in, invalid("copies", "must be at least 1")
	}
	return in, nil
}

// NewBook builds a fresh catalog entry with every copy available.
func NewBook(id string, in BookInput, now time.Time) (Book, error) {
	in, err := in.Validate()
	if err != nil {
		return Book{}, err
	}
	return Book{
		ID:          id,
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        in.ISBN,
		Category:    in.Category,
		Copies:      in.Copies,
		Available:   in.Copies,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply copies edited fields onto b. The available counter moves by the change
// in copies and never drops below zero.
func (b Book) Apply(in BookInput, now time.Time) Book {
	diff := in.Copies - b.Copies
	b.Title = in.Title
	b.Author = in.Author
	b.ISBN = in.ISBN
	b.Category = in.Category
	b.Description = in.Description
	b.Copies = in.Copies
	b.Available = max(0, b.Available+diff)
	b.UpdatedAt = now
	return b
}
