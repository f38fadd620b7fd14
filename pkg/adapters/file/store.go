package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
)

// DefaultBasePath is used when New receives an empty path.
var DefaultBasePath = filepath.Join(".canvas", "documents")

// Store implements ports.DocumentStore using the local filesystem.
// Each document is one file named after its canvas ID. Existing .yaml/.yml
// documents are read and rewritten in place; new ones use the store format.
type Store struct {
	BasePath string
	Format   Format
}

// New creates a new Store with the given base path, writing JSON.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	return &Store{BasePath: basePath, Format: FormatJSON}
}

var extensions = []string{".json", ".yaml", ".yml"}

func (s *Store) ext() string {
	if s.Format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// find returns the existing file of a document, or "" when there is none.
func (s *Store) find(canvasID string) (string, error) {
	for _, ext := range extensions {
		p := filepath.Join(s.BasePath, canvasID+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat document file: %w", err)
		}
	}
	return "", nil
}

func checkID(canvasID string) error {
	if canvasID == "" {
		return fmt.Errorf("canvasID cannot be empty")
	}
	if strings.ContainsAny(canvasID, `/\`) || canvasID == "." || canvasID == ".." {
		return fmt.Errorf("invalid canvasID %q", canvasID)
	}
	return nil
}

// Save persists the document atomically.
func (s *Store) Save(ctx context.Context, canvasID string, graph *domain.Graph) error {
	if err := checkID(canvasID); err != nil {
		return err
	}
	path, err := s.find(canvasID)
	if err != nil {
		return err
	}
	if path == "" {
		path = filepath.Join(s.BasePath, canvasID+s.ext())
	}
	return WriteGraph(path, graph)
}

// Load retrieves the document from its file.
func (s *Store) Load(ctx context.Context, canvasID string) (*domain.Graph, error) {
	if err := checkID(canvasID); err != nil {
		return nil, err
	}
	path, err := s.find(canvasID)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, domain.ErrDocumentNotFound
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}
	return Decode(data, FormatOf(path))
}

// Delete removes the document file.
func (s *Store) Delete(ctx context.Context, canvasID string) error {
	if err := checkID(canvasID); err != nil {
		return err
	}
	path, err := s.find(canvasID)
	if err != nil || path == "" {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete document file: %w", err)
	}
	return nil
}

// List returns the IDs of every document file.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	seen := make(map[string]bool)
	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		ext := filepath.Ext(name)
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") {
			continue
		}
		for _, known := range extensions {
			if ext == known {
				id := strings.TrimSuffix(name, ext)
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}
