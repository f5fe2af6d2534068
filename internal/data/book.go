// Package data provides the data models and database interaction logic
// for the books API.
package data

import (
	"math"
	"time"

	"github.com/aoideee/books-api/internal/validator"
)

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table, keyed by ISBN.
type Book struct {
	ISBN      string `json:"isbn"`       // Primary key; never changes after creation
	AmazonURL string `json:"amazon_url"` // Link to the book's Amazon listing
	Author    string `json:"author"`
	Language  string `json:"language"`
	Pages     int    `json:"pages"`
	Publisher string `json:"publisher"`
	Title     string `json:"title"`
	Year      int    `json:"year"` // Year of publication
}

// earliestYear is the lower bound for a plausible publication year.
const earliestYear = 1450

// latestYear allows books announced for next year.
func latestYear() int64 {
	return int64(time.Now().Year() + 1)
}

// bookSchema describes the JSON body accepted by create and update.
// isbn is only required on create; update addresses the row by the URL.
var bookSchema = validator.Schema{
	{Name: "isbn", Type: validator.String, CreateOnly: true, Constraints: []validator.Constraint{
		validator.NotBlank(), validator.MaxLength(32),
	}},
	{Name: "amazon_url", Type: validator.String, Required: true, Constraints: []validator.Constraint{
		validator.URL(),
	}},
	{Name: "author", Type: validator.String, Required: true, Constraints: []validator.Constraint{validator.NotBlank()}},
	{Name: "language", Type: validator.String, Required: true, Constraints: []validator.Constraint{validator.NotBlank()}},
	{Name: "pages", Type: validator.Integer, Required: true, Constraints: []validator.Constraint{
		validator.Positive(), validator.AtMost(math.MaxInt32),
	}},
	{Name: "publisher", Type: validator.String, Required: true, Constraints: []validator.Constraint{validator.NotBlank()}},
	{Name: "title", Type: validator.String, Required: true, Constraints: []validator.Constraint{validator.NotBlank()}},
	{Name: "year", Type: validator.Integer, Required: true, Constraints: []validator.Constraint{
		validator.Between(earliestYear, latestYear),
	}},
}

// ValidateBook checks a decoded JSON body against the book schema and, if
// every field passes, returns the Book it describes.
//
// In validator.Update mode isbn is the key taken from the URL. The body may
// repeat it, but a different value is rejected so the row's identity cannot
// change. In validator.Create mode isbn is ignored and the body's value is used.
func ValidateBook(payload map[string]any, mode validator.Mode, isbn string) (*Book, *validator.Validator) {
	values, v := bookSchema.Evaluate(payload, mode)

	if mode == validator.Update {
		if values.Has("isbn") {
			v.Check(values.String("isbn") == isbn, "isbn", "must match the isbn in the URL")
		}
	} else {
		isbn = values.String("isbn")
	}

	if !v.Valid() {
		return nil, v
	}

	return &Book{
		ISBN:      isbn,
		AmazonURL: values.String("amazon_url"),
		Author:    values.String("author"),
		Language:  values.String("language"),
		Pages:     int(values.Int("pages")),
		Publisher: values.String("publisher"),
		Title:     values.String("title"),
		Year:      int(values.Int("year")),
	}, v
}
