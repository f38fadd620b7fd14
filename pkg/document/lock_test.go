package document

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/canvas/pkg/domain"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, canvasID string, graph *domain.Graph) error {
	return nil
}
func (m *MockStore) Load(ctx context.Context, canvasID string) (*domain.Graph, error) {
	return nil, domain.ErrDocumentNotFound
}
func (m *MockStore) Delete(ctx context.Context, canvasID string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)        { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("canvas-%d", i)
		_ = mgr.Save(ctx, id, &domain.Graph{})
		_ = mgr.Delete(ctx, id)
	}

	lockCount := len(mgr.locks)
	t.Logf("Documents Created: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}
