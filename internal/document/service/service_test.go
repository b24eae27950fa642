package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gogotex/docregistry/internal/document"
	"github.com/gogotex/docregistry/internal/document/repository"
	"github.com/gogotex/docregistry/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

// fixedIDs replays ids in order.
type fixedIDs struct {
	ids []string
	i   int
}

func (f *fixedIDs) NewID() (string, error) {
	id := f.ids[f.i%len(f.ids)]
	f.i++
	return id, nil
}

// failingRepo fails every call with err.
type failingRepo struct{ err error }

func (f failingRepo) Insert(context.Context, *document.Document) error {
	return f.err
}

func (f failingRepo) Get(context.Context, string) (*document.Document, error) {
	return nil, f.err
}

func (f failingRepo) List(context.Context) ([]*document.Document, error) {
	return nil, f.err
}

func (f failingRepo) Update(context.Context, *document.Document) error {
	return f.err
}

func (f failingRepo) Delete(context.Context, string) (*document.Document, error) {
	return nil, f.err
}

func (f failingRepo) Ping(context.Context) error { return f.err }

func (f failingRepo) Close() error { return nil }

func TestInvoiceScenario(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	d, err := svc.AddDocument(ctx, "Invoice", strptr("Q1 report"))
	require.NoError(t, err)
	require.NotEmpty(t, d.ID)
	assert.Equal(t, "Invoice", d.Name)
	assert.Equal(t, "Q1 report", d.Description)
	assert.False(t, d.CreatedAt.IsZero())
	assert.Nil(t, d.UpdatedAt)

	found, err := svc.FindDocuments(ctx, "Inv")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, d, found[0])

	none, err := svc.FindDocuments(ctx, "zzz")
	require.NoError(t, err)
	require.NotNil(t, none)
	assert.Empty(t, none)

	removed, err := svc.DeleteDocument(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, removed)

	all, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAddDocument_Validation(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	_, err := svc.AddDocument(ctx, "", nil)
	require.ErrorIs(t, err, document.ErrInvalidPayload)

	_, err = svc.AddDocument(ctx, "   ", nil)
	require.ErrorIs(t, err, document.ErrInvalidPayload)

	_, err = svc.AddDocument(ctx, "report", strptr(" "))
	require.ErrorIs(t, err, document.ErrInvalidPayload)

	d, err := svc.AddDocument(ctx, "  report  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "report", d.Name)
	assert.Empty(t, d.Description)

	all, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAddDocument_RequireDescription(t *testing.T) {
	ctx := context.Background()
	svc := New(repository.NewMemoryRepo(), Options{RequireDescription: true})

	_, err := svc.AddDocument(ctx, "report", nil)
	require.ErrorIs(t, err, document.ErrInvalidPayload)

	d, err := svc.AddDocument(ctx, "report", strptr("yearly"))
	require.NoError(t, err)
	assert.Equal(t, "yearly", d.Description)
}

func TestAddDocument_UsesClock(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.FixedZone("X", 3600))
	svc := New(repository.NewMemoryRepo(), Options{Now: func() time.Time { return at }})

	d, err := svc.AddDocument(context.Background(), "clocked", nil)
	require.NoError(t, err)
	assert.Equal(t, at.UTC().Truncate(time.Millisecond), d.CreatedAt)
	assert.Equal(t, time.UTC, d.CreatedAt.Location())
}

func TestAddDocument_CollisionIsInternalAndNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRepo()
	svc := New(repo, Options{IDs: &fixedIDs{ids: []string{"same"}}})

	first, err := svc.AddDocument(ctx, "first", nil)
	require.NoError(t, err)

	_, err = svc.AddDocument(ctx, "second", nil)
	require.ErrorIs(t, err, document.ErrInternal)
	require.ErrorIs(t, err, repository.ErrDuplicateID)

	got, err := svc.GetDocument(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, first.Name, got.Name)

	all, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	const n = 200
	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		d, err := svc.AddDocument(ctx, fmt.Sprintf("doc-%d", i), nil)
		require.NoError(t, err)
		require.False(t, seen[d.ID], "id %s reused", d.ID)
		seen[d.ID] = true
	}
	all, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)
	for i, d := range all {
		assert.Equal(t, fmt.Sprintf("doc-%d", i), d.Name, "insertion order")
	}
}

func TestFindDocuments(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	for _, name := range []string{"Invoice 2024", "invoice draft", "Receipt", "Final Invoice"} {
		_, err := svc.AddDocument(ctx, name, nil)
		require.NoError(t, err)
	}

	got, err := svc.FindDocuments(ctx, "Invoice")
	require.NoError(t, err)
	names := make([]string, 0, len(got))
	for _, d := range got {
		names = append(names, d.Name)
	}
	// case-sensitive, store order
	assert.Equal(t, []string{"Invoice 2024", "Final Invoice"}, names)

	// keyword is matched verbatim, including spaces
	got, err = svc.FindDocuments(ctx, "l I")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Final Invoice", got[0].Name)

	for _, kw := range []string{"", "  "} {
		_, err = svc.FindDocuments(ctx, kw)
		require.ErrorIs(t, err, document.ErrInvalidKeyword)
	}
}

func TestGetDocuments_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	_, err := svc.AddDocument(ctx, "a", strptr("b"))
	require.NoError(t, err)

	first, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	second, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetDocuments_EmptyIsNotNil(t *testing.T) {
	all, err := NewMemoryService().GetDocuments(context.Background())
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Empty(t, all)
}

func TestDeleteDocument(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	a, err := svc.AddDocument(ctx, "a", nil)
	require.NoError(t, err)
	b, err := svc.AddDocument(ctx, "b", nil)
	require.NoError(t, err)

	removed, err := svc.DeleteDocument(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, removed.ID)

	all, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)

	_, err = svc.DeleteDocument(ctx, a.ID)
	require.ErrorIs(t, err, document.ErrNotFound)

	_, err = svc.DeleteDocument(ctx, "")
	require.ErrorIs(t, err, document.ErrInvalidID)
}

func TestGetDocument(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	d, err := svc.AddDocument(ctx, "a", nil)
	require.NoError(t, err)

	got, err := svc.GetDocument(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	_, err = svc.GetDocument(ctx, "missing")
	require.ErrorIs(t, err, document.ErrNotFound)

	_, err = svc.GetDocument(ctx, " ")
	require.ErrorIs(t, err, document.ErrInvalidID)
}

func TestUpdateDocument(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := created
	svc := New(repository.NewMemoryRepo(), Options{Now: func() time.Time { return clock }})

	d, err := svc.AddDocument(ctx, "draft", strptr("v1"))
	require.NoError(t, err)

	clock = created.Add(time.Hour)
	u, err := svc.UpdateDocument(ctx, d.ID, strptr("final"), nil)
	require.NoError(t, err)
	assert.Equal(t, d.ID, u.ID)
	assert.Equal(t, "final", u.Name)
	assert.Equal(t, "v1", u.Description)
	assert.Equal(t, created, u.CreatedAt)
	require.NotNil(t, u.UpdatedAt)
	assert.Equal(t, clock, *u.UpdatedAt)

	u, err = svc.UpdateDocument(ctx, d.ID, nil, strptr("v2"))
	require.NoError(t, err)
	assert.Equal(t, "final", u.Name)
	assert.Equal(t, "v2", u.Description)

	_, err = svc.UpdateDocument(ctx, d.ID, nil, nil)
	require.ErrorIs(t, err, document.ErrInvalidPayload)
	_, err = svc.UpdateDocument(ctx, d.ID, strptr(""), nil)
	require.ErrorIs(t, err, document.ErrInvalidPayload)
	_, err = svc.UpdateDocument(ctx, d.ID, nil, strptr(" "))
	require.ErrorIs(t, err, document.ErrInvalidPayload)
	_, err = svc.UpdateDocument(ctx, "missing", strptr("x"), nil)
	require.ErrorIs(t, err, document.ErrNotFound)
	_, err = svc.UpdateDocument(ctx, "", strptr("x"), nil)
	require.ErrorIs(t, err, document.ErrInvalidID)
}

func TestStorageFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("storage offline")
	svc := New(failingRepo{err: boom}, Options{})

	_, err := svc.AddDocument(ctx, "a", nil)
	require.ErrorIs(t, err, document.ErrInternal)
	require.ErrorIs(t, err, boom)

	_, err = svc.GetDocuments(ctx)
	require.ErrorIs(t, err, document.ErrInternal)

	_, err = svc.FindDocuments(ctx, "a")
	require.ErrorIs(t, err, document.ErrInternal)

	_, err = svc.GetDocument(ctx, "a")
	require.ErrorIs(t, err, document.ErrInternal)

	_, err = svc.DeleteDocument(ctx, "a")
	require.ErrorIs(t, err, document.ErrInternal)

	require.ErrorIs(t, svc.Ping(ctx), boom)
}

func TestConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddDocument(ctx, fmt.Sprintf("w-%d", i), nil)
			assert.NoError(t, err)
			_, err = svc.GetDocuments(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestConcurrentAddsListInIDOrder(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddDocument(ctx, fmt.Sprintf("c-%d", i), nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := svc.GetDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 100)
	ids := make([]string, len(all))
	for i, d := range all {
		ids[i] = d.ID
	}
	// memory keeps arrival order, key-ordered backends sort by id; both must agree
	assert.True(t, sort.StringsAreSorted(ids), "list order differs from id order: %v", ids)
}

func TestOperationMetrics(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	before := testutil.ToFloat64(metrics.DocumentOperations.WithLabelValues("find", "InvalidKeyword"))
	_, _ = svc.FindDocuments(ctx, "")
	after := testutil.ToFloat64(metrics.DocumentOperations.WithLabelValues("find", "InvalidKeyword"))
	assert.Equal(t, before+1, after)

	before = testutil.ToFloat64(metrics.DocumentOperations.WithLabelValues("add", "ok"))
	_, err := svc.AddDocument(ctx, "counted", nil)
	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.DocumentOperations.WithLabelValues("add", "ok")))
}
