// Package util provides identifier and time helpers for PantryMind.
package util

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces time-ordered UUIDv7 strings. IDs from one generator
// sort in creation order even within the same millisecond.
type IDGenerator struct {
	mu       sync.Mutex
	lastTime int64
	counter  uint16
}

// NewIDGenerator creates a new ID generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// NewID returns the next identifier.
func (g *IDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now != g.lastTime {
		g.lastTime = now
		g.counter = 0
		return uuidV7(now, 0)
	}

	g.counter++
	if g.counter == 0 {
		// 65536 ids in one millisecond; wait for the clock to move.
		for now <= g.lastTime {
			time.Sleep(100 * time.Microsecond)
			now = time.Now().UnixMilli()
		}
		g.lastTime = now
	}
	return uuidV7(now, g.counter)
}

var defaultGenerator = NewIDGenerator()

// NewID returns an identifier from the process-wide generator.
func NewID() string {
	return defaultGenerator.NewID()
}

func uuidV7(unixMilli int64, counter uint16) string {
	var id uuid.UUID

	binary.BigEndian.PutUint32(id[0:4], uint32(unixMilli>>16))
	binary.BigEndian.PutUint16(id[4:6], uint16(unixMilli))

	// 12 bits of the counter after the version nibble.
	id[6] = 0x70 | (byte(counter>>8) & 0x0F)
	id[7] = byte(counter)

	rand.Read(id[8:])
	id[8] = (id[8] & 0x3F) | 0x80

	return id.String()
}

// ParseID validates s and returns it in canonical form.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid ID format: %w", err)
	}
	return id.String(), nil
}

// IsValidID reports whether s is a UUID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
