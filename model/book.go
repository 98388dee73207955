package model // import "github.com/tetherhq/tether-read/model"

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlaceholderObjectKey marks a record whose upload has not finished yet.
// A record still holding it must never be offered for reading.
const PlaceholderObjectKey = "pending"

// Book is one uploaded EPUB owned by exactly one user.
type Book struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"ownerId" json:"user"`
	Title     string             `bson:"title" json:"title"`
	Author    string             `bson:"author,omitempty" json:"author,omitempty"`
	ObjectKey string             `bson:"objectKey" json:"-"`
	// CFI locates the reading position inside the book. Opaque to the
	// server, empty means never opened.
	CFI        string    `bson:"cfi" json:"cfi"`
	Percentage float64   `bson:"percentage" json:"percentage"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Readable reports whether the record points at finished bytes in object
// storage.
func (b *Book) Readable() bool {
	return b.ObjectKey != "" && b.ObjectKey != PlaceholderObjectKey
}

type ReadingStatus string

const (
	StatusAll       ReadingStatus = "all"
	StatusUnread    ReadingStatus = "unread"
	StatusReading   ReadingStatus = "reading"
	StatusCompleted ReadingStatus = "completed"
)

// Status classifies the record by reading progress.
func (b *Book) Status() ReadingStatus {
	switch {
	case b.Percentage == 0 || b.CFI == "":
		return StatusUnread
	case b.Percentage == 100:
		return StatusCompleted
	default:
		return StatusReading
	}
}

type FindBook struct {
	ID      *primitive.ObjectID
	OwnerID *string
}

// UpdateBookRequest carries an owner-scoped metadata edit. Only title and
// author are mutable through this path.
type UpdateBookRequest struct {
	BookID string  `json:"bookId"`
	Title  *string `json:"title,omitempty"`
	Author *string `json:"author,omitempty"`
}

type DeleteBookRequest struct {
	BookID string `json:"bookId"`
}

// UpdateProgressRequest carries a position write from the reader client.
type UpdateProgressRequest struct {
	CFI        string   `json:"cfi"`
	Percentage *float64 `json:"percentage"`
}
