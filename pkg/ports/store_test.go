package ports_test

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// MockStore is a JSON round-tripping implementation of DocumentStore for testing purposes.
type MockStore struct {
	data map[string][]byte
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]byte),
	}
}

func (m *MockStore) Save(ctx context.Context, canvasID string, graph *domain.Graph) error {
	raw, err := json.Marshal(graph)
	if err != nil {
		return err
	}
	m.data[canvasID] = raw
	return nil
}

func (m *MockStore) Load(ctx context.Context, canvasID string) (*domain.Graph, error) {
	raw, ok := m.data[canvasID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	var g domain.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *MockStore) Delete(ctx context.Context, canvasID string) error {
	delete(m.data, canvasID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type mockClipboard struct {
	text string
}

func (c *mockClipboard) WriteText(ctx context.Context, text string) error {
	c.text = text
	return nil
}

func (c *mockClipboard) ReadText(ctx context.Context) (string, error) {
	return c.text, nil
}

func TestDocumentStore_Contract(t *testing.T) {
	ports.RunDocumentStoreContract(t, NewMockStore())
}

func TestClipboard_Contract(t *testing.T) {
	ports.RunClipboardContract(t, &mockClipboard{})
}

func TestNotifierFunc(t *testing.T) {
	called := 0
	var n ports.Notifier = ports.NotifierFunc(func() { called++ })
	n.NotifyChanged()
	if called != 1 {
		t.Errorf("Expected 1 call, got %d", called)
	}
}
