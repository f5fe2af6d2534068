// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the recoverPanic and rateLimit middlewares.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → router
//
// Endpoints:
//
//	GET    /healthcheck   – service status and version
//	GET    /books         – list all books
//	POST   /books         – create a new book
//	GET    /books/:isbn   – retrieve a single book by ISBN
//	PUT    /books/:isbn   – replace an existing book
//	DELETE /books/:isbn   – delete a book by ISBN
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Return JSON instead of httprouter's plain-text defaults.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/books", app.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/books/:isbn", app.showBookHandler)
	router.HandlerFunc(http.MethodPut, "/books/:isbn", app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/books/:isbn", app.deleteBookHandler)

	return app.recoverPanic(app.rateLimit(router))
}
