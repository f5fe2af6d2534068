// cmd/api/handlers.go
// This file contains all HTTP request handlers for the books resource.
// Each handler is a method on *applicationDependencies so it has access
// to the logger and database models.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/books-api/internal/data"
	"github.com/aoideee/books-api/internal/validator"
)

// listBooksHandler handles GET /books.
// It returns every stored book as a JSON array.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := app.models.Books.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"books": books}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /books/:isbn.
// Responds 404 if no book with that ISBN exists.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := app.readISBNParam(r)

	book, err := app.models.Books.Get(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createBookHandler handles POST /books.
// The body must describe a complete book including its ISBN. A body that
// fails validation gets a 400 listing every bad field; an ISBN that already
// exists gets a 409. On success the stored book is returned with 201 Created.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := app.readJSONObject(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, v := data.ValidateBook(payload, validator.Create, "")
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Books.Insert(r.Context(), book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateISBN):
			app.duplicateISBNResponse(w, r)
		case errors.Is(err, data.ErrValueOutOfRange):
			app.valueOutOfRangeResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	headers.Set("Location", bookLocation(book.ISBN))

	err = app.writeJSON(w, http.StatusCreated, envelope{"book": book}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PUT /books/:isbn.
// It replaces every mutable field of the book addressed by the URL. The
// body may repeat the ISBN but cannot change it. Responds 404 if the book
// does not exist.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := app.readISBNParam(r)

	payload, err := app.readJSONObject(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, v := data.ValidateBook(payload, validator.Update, isbn)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Books.Update(r.Context(), isbn, book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, data.ErrValueOutOfRange):
			app.valueOutOfRangeResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /books/:isbn.
// Responds 404 if no book with that ISBN exists.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	isbn := app.readISBNParam(r)

	err := app.models.Books.Delete(r.Context(), isbn)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Book deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler handles GET /healthcheck and reports the running
// environment and version.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status": "available",
		"system_info": map[string]string{
			"environment": app.config.environment,
			"version":     appVersion,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
