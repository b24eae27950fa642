package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/document/repository"
	"github.com/gogotex/docregistry/pkg/logger"
	"github.com/gogotex/docregistry/pkg/metrics"
)

// Service defines the document operations used by the handler layer and the CLI.
type Service interface {
	AddDocument(ctx context.Context, name string, description *string) (*document.Document, error)
	GetDocuments(ctx context.Context) ([]*document.Document, error)
	FindDocuments(ctx context.Context, keyword string) ([]*document.Document, error)
	GetDocument(ctx context.Context, id string) (*document.Document, error)
	UpdateDocument(ctx context.Context, id string, name, description *string) (*document.Document, error)
	DeleteDocument(ctx context.Context, id string) (*document.Document, error)
	Ping(ctx context.Context) error
}

// Options tune validation and collaborators. Zero value is usable.
type Options struct {
	// RequireDescription rejects creates without a description.
	RequireDescription bool
	// IDs defaults to a ULID generator.
	IDs document.IDGenerator
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo(), Options{})
}

// New returns a Service over repo. Writes are serialized; reads run concurrently.
func New(repo repository.Repository, opts Options) Service {
	if opts.IDs == nil {
		opts.IDs = document.NewULIDGenerator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &documentService{repo: repo, opts: opts}
}

type documentService struct {
	repo repository.Repository
	opts Options
	// single writer
	wmu sync.Mutex
}

func (s *documentService) AddDocument(ctx context.Context, name string, description *string) (doc *document.Document, err error) {
	defer func() { record("add", err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", document.ErrInvalidPayload)
	}
	desc, err := s.checkDescription(description, s.opts.RequireDescription)
	if err != nil {
		return nil, err
	}

	// id order is insertion order on every backend
	s.wmu.Lock()
	defer s.wmu.Unlock()
	id, err := s.opts.IDs.NewID()
	if err != nil {
		return nil, internal(err)
	}
	doc = &document.Document{
		ID:          id,
		Name:        name,
		Description: desc,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			logger.WithFields(map[string]interface{}{"document_id": id}).Error("generated id collided with an existing document")
		}
		return nil, internal(err)
	}
	logger.WithFields(map[string]interface{}{"document_id": id, "name": name}).Debug("Document created")
	return doc, nil
}

func (s *documentService) GetDocuments(ctx context.Context) (docs []*document.Document, err error) {
	defer func() { record("list", err) }()
	docs, err = s.repo.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	return docs, nil
}

func (s *documentService) FindDocuments(ctx context.Context, keyword string) (docs []*document.Document, err error) {
	defer func() { record("find", err) }()
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("%w: keyword must not be empty", document.ErrInvalidKeyword)
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal(err)
	}
	docs = make([]*document.Document, 0)
	for _, d := range all {
		if strings.Contains(d.Name, keyword) {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (doc *document.Document, err error) {
	defer func() { record("get", err) }()
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", document.ErrInvalidID)
	}
	doc, err = s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	return doc, nil
}

func (s *documentService) UpdateDocument(ctx context.Context, id string, name, description *string) (doc *document.Document, err error) {
	defer func() { record("update", err) }()
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", document.ErrInvalidID)
	}
	if name == nil && description == nil {
		return nil, fmt.Errorf("%w: nothing to update", document.ErrInvalidPayload)
	}
	var newName string
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return nil, fmt.Errorf("%w: name must not be empty", document.ErrInvalidPayload)
		}
	}
	desc, err := s.checkDescription(description, false)
	if err != nil {
		return nil, err
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	doc, err = s.repo.Get(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	if name != nil {
		doc.Name = newName
	}
	if description != nil {
		doc.Description = desc
	}
	now := s.now()
	doc.UpdatedAt = &now
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, notFoundOrInternal(err)
	}
	return doc, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, id string) (doc *document.Document, err error) {
	defer func() { record("delete", err) }()
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", document.ErrInvalidID)
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	doc, err = s.repo.Delete(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err)
	}
	logger.WithFields(map[string]interface{}{"document_id": id}).Debug("Document deleted")
	return doc, nil
}

func (s *documentService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// checkDescription trims a provided description; present-but-blank is invalid.
func (s *documentService) checkDescription(description *string, required bool) (string, error) {
	if description == nil {
		if required {
			return "", fmt.Errorf("%w: description is required", document.ErrInvalidPayload)
		}
		return "", nil
	}
	d := strings.TrimSpace(*description)
	if d == "" {
		return "", fmt.Errorf("%w: description must not be empty", document.ErrInvalidPayload)
	}
	return d, nil
}

// now is truncated to milliseconds so every backend round-trips it exactly.
func (s *documentService) now() time.Time {
	return s.opts.Now().UTC().Truncate(time.Millisecond)
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", document.ErrInternal, err)
}

func notFoundOrInternal(err error) error {
	if errors.Is(err, document.ErrNotFound) {
		return err
	}
	return internal(err)
}

func record(op string, err error) {
	result := "ok"
	if err != nil {
		result = document.Code(err)
	}
	metrics.DocumentOperations.WithLabelValues(op, result).Inc()
}
