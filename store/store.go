package store // import "github.com/tetherhq/tether-read/store"

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tetherhq/tether-read/store/db"
)

// ErrNotFound covers both "record does not exist" and "record is not owned
// by the caller". The two are deliberately indistinguishable so a caller
// cannot probe for other users' books.
var ErrNotFound = errors.New("book not found")

type Store struct {
	db *db.DB
}

func NewStore(db *db.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
