package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/storage"
)

// ObjectStore is the subset of an object storage client used by ObjectRepo.
// storage.MinIOStorage satisfies it. List must return keys in lexicographic order.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
}

var _ ObjectStore = (*storage.MinIOStorage)(nil)

// ObjectRepo keeps one JSON object per document at "<prefix><id>.json".
// Key order follows id order, which is insertion order.
type ObjectRepo struct {
	store  ObjectStore
	prefix string
}

func NewObjectRepo(store ObjectStore, prefix string) *ObjectRepo {
	if prefix == "" {
		prefix = "documents/"
	}
	return &ObjectRepo{store: store, prefix: prefix}
}

func (o *ObjectRepo) key(id string) string { return o.prefix + id + ".json" }

func (o *ObjectRepo) Insert(ctx context.Context, doc *document.Document) error {
	exists, err := o.store.Exists(ctx, o.key(doc.ID))
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateID
	}
	return o.put(ctx, doc)
}

func (o *ObjectRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	b, err := o.store.Get(ctx, o.key(id))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	var d document.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (o *ObjectRepo) List(ctx context.Context) ([]*document.Document, error) {
	keys, err := o.store.List(ctx, o.prefix)
	if err != nil {
		return nil, err
	}
	out := make([]*document.Document, 0, len(keys))
	for _, k := range keys {
		if !strings.HasSuffix(k, ".json") {
			continue
		}
		d, err := o.Get(ctx, strings.TrimSuffix(strings.TrimPrefix(k, o.prefix), ".json"))
		if err != nil {
			// removed between listing and read
			if errors.Is(err, document.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (o *ObjectRepo) Update(ctx context.Context, doc *document.Document) error {
	exists, err := o.store.Exists(ctx, o.key(doc.ID))
	if err != nil {
		return err
	}
	if !exists {
		return document.ErrNotFound
	}
	return o.put(ctx, doc)
}

func (o *ObjectRepo) Delete(ctx context.Context, id string) (*document.Document, error) {
	d, err := o.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.store.Delete(ctx, o.key(id)); err != nil {
		return nil, err
	}
	return d, nil
}

func (o *ObjectRepo) Ping(ctx context.Context) error { return o.store.Ping(ctx) }

func (o *ObjectRepo) Close() error { return nil }

func (o *ObjectRepo) put(ctx context.Context, doc *document.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return o.store.Put(ctx, o.key(doc.ID), b, "application/json")
}
