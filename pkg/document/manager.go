package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock is held if a replica dies.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates document access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.DocumentStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker    ports.DistributedLocker // Optional distributed locker
	lockTTL   time.Duration
	clipboard ports.Clipboard // Optional clipboard shared by every document
	edit      EditOptions
	observers []func(*domain.GraphDiff)
	hooks     domain.Hooks
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithClipboard sets the clipboard used by Copy and Paste when the caller
// does not provide clipboard text.
func WithClipboard(cb ports.Clipboard) Option {
	return func(m *Manager) {
		m.clipboard = cb
	}
}

// WithObserver registers a callback for every committed change.
func WithObserver(fn func(*domain.GraphDiff)) Option {
	return func(m *Manager) {
		m.observers = append(m.observers, fn)
	}
}

// WithHooks registers clipboard callbacks for Copy, Cut and Paste.
func WithHooks(h domain.Hooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(h)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new document Manager with the given persistence store.
func NewManager(store ports.DocumentStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Subscribe registers an observer after construction.
func (m *Manager) Subscribe(fn func(*domain.GraphDiff)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(canvasID) after unlocking.
func (m *Manager) acquire(canvasID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[canvasID]
	if !exists {
		entry = &lockEntry{}
		m.locks[canvasID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(canvasID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[canvasID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, canvasID)
	}
}

// Load retrieves an existing document from the store.
func (m *Manager) Load(ctx context.Context, canvasID string) (*domain.Graph, error) {
	var graph *domain.Graph
	err := m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		var err error
		graph, err = m.store.Load(ctx, canvasID)
		return err
	})
	return graph, err
}

// LoadOrCreate loads a document, creating an empty one if it does not exist.
func (m *Manager) LoadOrCreate(ctx context.Context, canvasID string) (*domain.Graph, error) {
	var graph *domain.Graph
	err := m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		var err error
		graph, err = m.store.Load(ctx, canvasID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDocumentNotFound) {
			return fmt.Errorf("failed to check document existence: %w", err)
		}

		graph = &domain.Graph{Nodes: []domain.Node{}, Edges: []domain.Edge{}}
		if err := m.store.Save(ctx, canvasID, graph); err != nil {
			return fmt.Errorf("failed to initialize document: %w", err)
		}
		return nil
	})
	return graph, err
}

// Save validates and persists a whole document, publishing the difference
// from the stored version.
func (m *Manager) Save(ctx context.Context, canvasID string, graph *domain.Graph) error {
	if err := graph.Validate(); err != nil {
		return err
	}
	return m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		prev, err := m.store.Load(ctx, canvasID)
		if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
			return err
		}
		if err := m.store.Save(ctx, canvasID, graph); err != nil {
			return err
		}
		m.publish(domain.Diff(canvasID, prev, graph))
		return nil
	})
}

// Update applies fn to the stored document under the lock and persists the
// result. fn reports whether it changed anything; unchanged documents are not
// written. The committed difference is returned and published.
func (m *Manager) Update(ctx context.Context, canvasID string, fn func(g *domain.Graph) (bool, error)) (*domain.GraphDiff, error) {
	var diff *domain.GraphDiff
	err := m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		prev, err := m.store.Load(ctx, canvasID)
		if err != nil {
			return err
		}
		next := prev.Clone()
		changed, err := fn(&next)
		if err != nil || !changed {
			return err
		}
		next = next.Prune()
		if err := next.Validate(); err != nil {
			return err
		}
		if err := m.store.Save(ctx, canvasID, &next); err != nil {
			return fmt.Errorf("failed to save document: %w", err)
		}
		diff = domain.Diff(canvasID, prev, &next)
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.publish(diff)
	return diff, nil
}

// Delete removes the document from the store.
func (m *Manager) Delete(ctx context.Context, canvasID string) error {
	return m.WithLock(ctx, canvasID, func(ctx context.Context) error {
		return m.store.Delete(ctx, canvasID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying document store.
func (m *Manager) Store() ports.DocumentStore {
	return m.store
}

// WithLock executes a function while holding the lock for the document.
func (m *Manager) WithLock(ctx context.Context, canvasID string, fn func(context.Context) error) error {
	entry := m.acquire(canvasID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(canvasID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, canvasID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"canvas_id", canvasID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) publish(diff *domain.GraphDiff) {
	if diff == nil {
		return
	}
	m.mu.Lock()
	observers := make([]func(*domain.GraphDiff), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, fn := range observers {
		fn(diff)
	}
}
