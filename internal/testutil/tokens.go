package testutil

import (
	"fmt"
	"sync"
)

// SequentialTokens generates "<prefix>-1", "<prefix>-2", ... operation tokens.
//
// This enables deterministic log and trace output in tests.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialTokens struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialTokens creates a token generator.
// If prefix is empty, "op" is used.
func NewSequentialTokens(prefix string) *SequentialTokens {
	if prefix == "" {
		prefix = "op"
	}
	return &SequentialTokens{prefix: prefix}
}

// Generate returns the next token.
//
// Implements controller.TokenGenerator.
func (g *SequentialTokens) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Count returns how many tokens have been generated.
func (g *SequentialTokens) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}
