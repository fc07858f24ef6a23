package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/serroba/shortlink/internal/shortener"
)

type componentMap struct {
	mu   sync.Mutex
	ids  map[string]uint64
	next uint64
}

// MemoryDictionary keeps component identifiers in process memory.
// Identifiers are lost on restart.
type MemoryDictionary struct {
	classes map[shortener.ComponentClass]*componentMap
}

// NewMemoryDictionary creates an empty in-memory dictionary.
func NewMemoryDictionary() *MemoryDictionary {
	classes := make(map[shortener.ComponentClass]*componentMap, 3)

	for _, class := range []shortener.ComponentClass{
		shortener.ClassProtocol,
		shortener.ClassDomain,
		shortener.ClassPath,
	} {
		classes[class] = &componentMap{
			ids:  make(map[string]uint64),
			next: shortener.FirstIdentifier,
		}
	}

	return &MemoryDictionary{classes: classes}
}

func (d *MemoryDictionary) Identify(_ context.Context, class shortener.ComponentClass, value string) (uint64, error) {
	c, ok := d.classes[class]
	if !ok {
		return 0, fmt.Errorf("unknown component class %q", class)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.ids[value]; ok {
		return id, nil
	}

	id := c.next
	c.ids[value] = id
	c.next++

	return id, nil
}

// Compile-time check.
var _ shortener.Dictionary = (*MemoryDictionary)(nil)
