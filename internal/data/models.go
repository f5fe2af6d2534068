// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// queryTimeout bounds every statement issued against the books table.
const queryTimeout = 3 * time.Second

var (
	// ErrRecordNotFound is returned when a query finds no matching row.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateISBN is returned when an insert collides with an existing ISBN.
	ErrDuplicateISBN = errors.New("duplicate isbn")
	// ErrValueOutOfRange is returned when a column rejects a value as too large for its type.
	ErrValueOutOfRange = errors.New("value out of range")
	// ErrStorageUnavailable wraps every other failure reported by the database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// BookRepository is the set of operations the HTTP layer needs from book storage.
type BookRepository interface {
	GetAll(ctx context.Context) ([]*Book, error)
	Get(ctx context.Context, isbn string) (*Book, error)
	Insert(ctx context.Context, book *Book) error
	Update(ctx context.Context, isbn string, book *Book) error
	Delete(ctx context.Context, isbn string) error
}

// Models is a top-level container that groups all database model types together.
// It is passed around the application via applicationDependencies so every handler
// has access to the database without importing sql directly.
type Models struct {
	Books BookRepository
}

// NewModels constructs a Models value wired up to the given database connection pool.
func NewModels(db *sql.DB) Models {
	return Models{
		Books: BookModel{DB: db},
	}
}

// BookModel wraps a *sql.DB connection pool and implements BookRepository
// against the "books" table.
type BookModel struct {
	DB *sql.DB
}

// storageError classifies a driver error. Numeric overflow is the client's
// fault and is kept apart from real storage failures.
func storageError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.NumericValueOutOfRange {
		return ErrValueOutOfRange
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

// GetAll returns every book ordered by ISBN.
func (m BookModel) GetAll(ctx context.Context) ([]*Book, error) {
	query := `
		SELECT isbn, amazon_url, author, language, pages, publisher, title, year
		FROM books
		ORDER BY isbn`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, storageError(err)
	}
	// Always close the result set so the connection returns to the pool.
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		var book Book
		err := rows.Scan(
			&book.ISBN,
			&book.AmazonURL,
			&book.Author,
			&book.Language,
			&book.Pages,
			&book.Publisher,
			&book.Title,
			&book.Year,
		)
		if err != nil {
			return nil, storageError(err)
		}
		books = append(books, &book)
	}

	if err = rows.Err(); err != nil {
		return nil, storageError(err)
	}

	return books, nil
}

// Get retrieves a single book by its ISBN.
// Returns ErrRecordNotFound if no book with the given isbn exists.
func (m BookModel) Get(ctx context.Context, isbn string) (*Book, error) {
	if strings.TrimSpace(isbn) == "" {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT isbn, amazon_url, author, language, pages, publisher, title, year
		FROM books
		WHERE isbn = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var book Book
	err := m.DB.QueryRowContext(ctx, query, isbn).Scan(
		&book.ISBN,
		&book.AmazonURL,
		&book.Author,
		&book.Language,
		&book.Pages,
		&book.Publisher,
		&book.Title,
		&book.Year,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, storageError(err)
		}
	}
	return &book, nil
}

// Insert adds a new book record to the database.
// Returns ErrDuplicateISBN if a book with the same ISBN already exists.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (isbn, amazon_url, author, language, pages, publisher, title, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := m.DB.ExecContext(ctx, query,
		book.ISBN,
		book.AmazonURL,
		book.Author,
		book.Language,
		book.Pages,
		book.Publisher,
		book.Title,
		book.Year,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
			return ErrDuplicateISBN
		}
		return storageError(err)
	}
	return nil
}

// Update replaces every mutable column of the row identified by isbn and
// writes the stored row back into book.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Update(ctx context.Context, isbn string, book *Book) error {
	if strings.TrimSpace(isbn) == "" {
		return ErrRecordNotFound
	}

	query := `
		UPDATE books
		SET amazon_url = $1, author = $2, language = $3, pages = $4,
		    publisher = $5, title = $6, year = $7
		WHERE isbn = $8
		RETURNING isbn, amazon_url, author, language, pages, publisher, title, year`

	args := []any{
		book.AmazonURL,
		book.Author,
		book.Language,
		book.Pages,
		book.Publisher,
		book.Title,
		book.Year,
		isbn,
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query, args...).Scan(
		&book.ISBN,
		&book.AmazonURL,
		&book.Author,
		&book.Language,
		&book.Pages,
		&book.Publisher,
		&book.Title,
		&book.Year,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return storageError(err)
		}
	}
	return nil
}

// Delete removes the book with the given isbn from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(ctx context.Context, isbn string) error {
	if strings.TrimSpace(isbn) == "" {
		return ErrRecordNotFound
	}

	query := `DELETE FROM books WHERE isbn = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	// Exec returns a Result that tells us how many rows were affected.
	result, err := m.DB.ExecContext(ctx, query, isbn)
	if err != nil {
		return storageError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError(err)
	}

	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
