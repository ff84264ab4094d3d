package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"library_backend/internal/models"

	"github.com/spf13/cobra"
)

// bookColumns is the expected CSV layout; a header row with these names is
// skipped and the description column may be omitted.
var bookColumns = []string{"title", "author", "isbn", "category", "copies", "description"}

type rowError struct {
	Line int
	Err  error
}

func (e rowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// parseBooks reads CSV rows into book inputs. Malformed rows are reported and
// skipped; only an unreadable stream is a hard error.
func parseBooks(r io.Reader) ([]models.BookInput, []rowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		books []models.BookInput
		bad   []rowError
		first = true
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				bad = append(bad, rowError{Line: pe.Line, Err: pe.Err})
				continue
			}
			return nil, nil, err
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		in, err := bookFromRecord(rec)
		if err != nil {
			bad = append(bad, rowError{Line: line, Err: err})
			continue
		}
		books = append(books, in)
	}
	return books, bad, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), bookColumns[0])
}

func bookFromRecord(rec []string) (models.BookInput, error) {
	if len(rec) < 5 || len(rec) > len(bookColumns) {
		return models.BookInput{}, fmt.Errorf("want %d or %d columns, got %d", 5, len(bookColumns), len(rec))
	}
	copies, err := strconv.Atoi(strings.TrimSpace(rec[4]))
	if err != nil {
		return models.BookInput{}, fmt.Errorf("copies %q is not a number", rec[4])
	}
	in := models.BookInput{
		Title:    rec[0],
		Author:   rec[1],
		ISBN:     rec[2],
		Category: rec[3],
		Copies:   copies,
	}
	if len(rec) == len(bookColumns) {
		in.Description = rec[5]
	}
	return in.Validate()
}

// importSummary counts the outcome of one import run.
type importSummary struct {
	Added      int
	Duplicates int
	Invalid    int
}

type bookAdder interface {
	AddBook(ctx context.Context, who models.Identity, in models.BookInput) (models.Book, error)
}

// importBooks adds each book, skipping ISBNs already in the catalog.
func importBooks(ctx context.Context, cat bookAdder, books []models.BookInput, out io.Writer) (importSummary, error) {
	var sum importSummary
	for _, in := range books {
		_, err := cat.AddBook(ctx, operator, in)
		var ve *models.ValidationError
		switch {
		case err == nil:
			sum.Added++
		case errors.Is(err, models.ErrDuplicateIsbn):
			sum.Duplicates++
			fmt.Fprintf(out, "skip %s (%s): already in catalog\n", in.ISBN, in.Title)
		case errors.As(err, &ve):
			sum.Invalid++
			fmt.Fprintf(out, "skip %s (%s): %v\n", in.ISBN, in.Title, err)
		default:
			return sum, fmt.Errorf("add %s: %w", in.ISBN, err)
		}
	}
	return sum, nil
}

func newImportBooksCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "import-books",
		Short: "Bulk-add books from a CSV file",
		Long:  "Columns: " + strings.Join(bookColumns, ",") + ". Books whose ISBN already exists are skipped.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			books, bad, err := parseBooks(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			for _, re := range bad {
				fmt.Fprintf(out, "skip %v\n", re)
			}

			sum, err := importBooks(cmd.Context(), a.catalog(), books, out)
			sum.Invalid += len(bad)
			fmt.Fprintf(out, "Imported %d, skipped %d duplicates, %d invalid rows.\n",
				sum.Added, sum.Duplicates, sum.Invalid)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "", "CSV file to import (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
