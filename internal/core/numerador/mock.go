package numerador

import (
	"context"
	"sync"
)

// MockAllocator is a test implementation of Allocator.
// Use in unit tests to avoid database dependencies.
type MockAllocator struct {
	NextFunc func(ctx context.Context, year int) (string, error)

	mu   sync.Mutex
	last int
}

// Next implements Allocator.
func (m *MockAllocator) Next(ctx context.Context, year int) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, year)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last++
	return Format(year, m.last), nil
}

// Ensure compile-time interface compliance.
var _ Allocator = (*MockAllocator)(nil)
