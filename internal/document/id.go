package document

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces document identifiers. Implementations return 128-bit,
// time-ordered values so that key order on ordered backends matches insertion order.
type IDGenerator interface {
	NewID() (string, error)
}

// ULIDGenerator issues monotonic ULIDs. Safe for concurrent use.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("ulid: %w", err)
	}
	return id.String(), nil
}

// UUIDGenerator issues version 7 UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("uuid: %w", err)
	}
	return id.String(), nil
}

// NewIDGenerator returns the generator for scheme ("ulid" or "uuid").
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", "ulid":
		return NewULIDGenerator(), nil
	case "uuid":
		return NewUUIDGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id scheme: %q (supported: ulid, uuid)", scheme)
	}
}
