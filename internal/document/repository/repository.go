package repository

import (
	"context"
	"errors"

	"github.com/gogotex/docregistry/internal/document"
)

// ErrDuplicateID is returned by Insert when the key is already taken.
// Implementations must never overwrite an existing document on insert.
var ErrDuplicateID = errors.New("duplicate document id")

// Repository is the ordered key-value collaborator behind the document service.
// List returns documents in insertion order. Missing keys yield document.ErrNotFound.
// Returned documents are copies owned by the caller.
type Repository interface {
	Insert(ctx context.Context, doc *document.Document) error
	Get(ctx context.Context, id string) (*document.Document, error)
	List(ctx context.Context) ([]*document.Document, error)
	Update(ctx context.Context, doc *document.Document) error
	Delete(ctx context.Context, id string) (*document.Document, error)
	Ping(ctx context.Context) error
	Close() error
}
