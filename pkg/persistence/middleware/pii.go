package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/aretw0/canvas/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

// DefaultSecretPatterns match configuration keys that usually hold credentials.
var DefaultSecretPatterns = []string{`(?i)api[_-]?key`, `(?i)token`, `(?i)secret`, `(?i)password`}

type piiMiddleware struct {
	next     ports.DocumentStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks configuration values whose
// keys match the patterns, at any depth, before they are stored.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		patterns[i] = re
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, canvasID string, graph *domain.Graph) error {
	// The caller's graph stays untouched.
	masked := *graph
	masked.Nodes = make([]domain.Node, len(graph.Nodes))
	for i, n := range graph.Nodes {
		if n.Configuration != nil {
			n.Configuration = deepCopyMap(n.Configuration)
			maskMap(n.Configuration, m.patterns)
		}
		masked.Nodes[i] = n
	}
	return m.next.Save(ctx, canvasID, &masked)
}

func (m *piiMiddleware) Load(ctx context.Context, canvasID string) (*domain.Graph, error) {
	return m.next.Load(ctx, canvasID)
}

func (m *piiMiddleware) Delete(ctx context.Context, canvasID string) error {
	return m.next.Delete(ctx, canvasID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				masked = true
				break
			}
		}
		if subMap, ok := v.(map[string]any); ok && !masked {
			maskMap(subMap, patterns)
		}
	}
}
