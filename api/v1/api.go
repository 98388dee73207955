package v1 // import "github.com/tetherhq/tether-read/api/v1"

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tetherhq/tether-read/api/auth"
	"github.com/tetherhq/tether-read/middleware"
	"github.com/tetherhq/tether-read/model"
	"github.com/tetherhq/tether-read/storage"
)

// BookStore is the record-store surface the handlers need.
type BookStore interface {
	CreatePlaceholder(ctx context.Context, book *model.Book) (*model.Book, error)
	FinalizeUpload(ctx context.Context, id primitive.ObjectID, objectKey string) error
	GetBook(ctx context.Context, find *model.FindBook) (*model.Book, error)
	ListBooks(ctx context.Context, req *model.ListBooksRequest) (*model.BookPage, error)
	UpdateBookMeta(ctx context.Context, ownerID string, id primitive.ObjectID, title, author *string) (*model.Book, error)
	UpdateProgress(ctx context.Context, ownerID string, id primitive.ObjectID, cfi string, percentage float64) error
	RemoveBook(ctx context.Context, ownerID string, id primitive.ObjectID) error
}

type Handler struct {
	store   BookStore
	objects storage.ObjectStore
	router  *mux.Router
}

// Server mounts the authenticated API routes on the given router.
func Server(router *mux.Router, store BookStore, objects storage.ObjectStore, verifier auth.Verifier) {
	handler := &Handler{
		store:   store,
		objects: objects,
		router:  router,
	}

	sr := router.PathPrefix("/api/v1").Subrouter()
	m := middleware.NewMiddleware(verifier)
	sr.Use(m.HandleCORS)
	sr.Use(m.LoggingRequest)
	sr.Use(m.AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.updateBook).Methods(http.MethodPut)
	sr.HandleFunc("/books", handler.deleteBook).Methods(http.MethodDelete)
	sr.HandleFunc("/book/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/book/{id}/progress", handler.getProgress).Methods(http.MethodGet)
	sr.HandleFunc("/book/{id}/progress", handler.putProgress).Methods(http.MethodPut)
	sr.HandleFunc("/book/{id}/url", handler.getBookURL).Methods(http.MethodGet)
	sr.HandleFunc("/upload", handler.uploadBook).Methods(http.MethodPost)
}
