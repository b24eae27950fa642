package repository

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/gogotex/docregistry/internal/document"
	"go.mongodb.org/mongo-driver/bson"
)

// docKeyPrefix namespaces document keys; ids are time-ordered so
// prefix iteration returns insertion order.
const docKeyPrefix = "doc|"

// BadgerRepo stores BSON-encoded documents in an embedded Badger database.
type BadgerRepo struct {
	db *badger.DB
}

// NewBadgerRepo opens a Badger database in dir, or an in-memory one when inMemory is set.
func NewBadgerRepo(dir string, inMemory bool) (*BadgerRepo, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerRepo{db: db}, nil
}

func docKey(id string) []byte { return []byte(docKeyPrefix + id) }

func (b *BadgerRepo) Insert(_ context.Context, doc *document.Document) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(docKey(doc.ID))
		if err == nil {
			return ErrDuplicateID
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(docKey(doc.ID), raw)
	})
}

func (b *BadgerRepo) Get(_ context.Context, id string) (*document.Document, error) {
	var d *document.Document
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		d, err = readDocument(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (b *BadgerRepo) List(_ context.Context) ([]*document.Document, error) {
	out := []*document.Document{}
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(docKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var d document.Document
				if err := bson.Unmarshal(val, &d); err != nil {
					return err
				}
				out = append(out, &d)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BadgerRepo) Update(_ context.Context, doc *document.Document) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(docKey(doc.ID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return document.ErrNotFound
			}
			return err
		}
		return txn.Set(docKey(doc.ID), raw)
	})
}

func (b *BadgerRepo) Delete(_ context.Context, id string) (*document.Document, error) {
	var d *document.Document
	err := b.db.Update(func(txn *badger.Txn) error {
		var err error
		if d, err = readDocument(txn, id); err != nil {
			return err
		}
		return txn.Delete(docKey(id))
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (b *BadgerRepo) Ping(context.Context) error {
	if b.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

func (b *BadgerRepo) Close() error {
	return b.db.Close()
}

func readDocument(txn *badger.Txn, id string) (*document.Document, error) {
	item, err := txn.Get(docKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	var d document.Document
	err = item.Value(func(val []byte) error {
		return bson.Unmarshal(val, &d)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
