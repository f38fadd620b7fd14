package clipboard

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/canvas/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Parse normalizes clipboard text into a document. Three shapes are accepted:
// the tagged clipboard format, a bare workflow {nodes, edges}, and a single
// bare node recognized by its type, position and ports keys.
//
// The single-node shape is a heuristic and may match unrelated JSON that
// happens to carry those keys.
func Parse(text string) (*domain.ClipboardDocument, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnknownPayload, err)
	}

	switch {
	case raw["type"] == domain.ClipboardType:
		var doc domain.ClipboardDocument
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnknownPayload, err)
		}
		if _, ok := raw["copyOrigin"]; !ok {
			doc.CopyOrigin = domain.SelectionOrigin(doc.Nodes)
		}
		if doc.Edges == nil {
			doc.Edges = []domain.Edge{}
		}
		return &doc, nil

	case has(raw, "nodes"):
		var wf struct {
			Nodes []domain.Node `json:"nodes"`
			Edges []domain.Edge `json:"edges"`
		}
		if err := json.Unmarshal([]byte(text), &wf); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnknownPayload, err)
		}
		return domain.NewClipboardDocument(wf.Nodes, wf.Edges), nil

	case has(raw, "type", "position", "ports"):
		node, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		return domain.NewClipboardDocument([]domain.Node{node}, nil), nil
	}
	return nil, domain.ErrUnknownPayload
}

func decodeNode(raw map[string]any) (domain.Node, error) {
	var node domain.Node
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &node,
	})
	if err != nil {
		return node, err
	}
	if err := dec.Decode(raw); err != nil {
		return node, fmt.Errorf("%w: bare node: %v", domain.ErrUnknownPayload, err)
	}
	return node, nil
}

func has(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
