package search

import (
	"encoding/json"
	"fmt"
)

// FieldKind selects how a declared field is copied into a document.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindOne
	KindMany
)

// Field is one entry of a projection. Names refer to the JSON names of the
// entity and of its related entities.
type Field struct {
	Name string
	Kind FieldKind
	Sub  []string
}

func Scalar(name string) Field { return Field{Name: name, Kind: KindScalar} }

// One projects a single related object. With exactly one sub-field the
// value is flattened to that scalar.
func One(name string, sub ...string) Field { return Field{Name: name, Kind: KindOne, Sub: sub} }

// Many projects a collection into an array of sub-documents.
func Many(name string, sub ...string) Field { return Field{Name: name, Kind: KindMany, Sub: sub} }

// Document is the body sent to the document store.
type Document map[string]any

// Projection is the declarative list of searchable fields of one entity.
type Projection struct {
	Fields []Field
}

// Project builds the document for entity from its JSON form.
func (p Projection) Project(entity any) (Document, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	var src map[string]any
	if err := json.Unmarshal(raw, &src); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	doc := make(Document, len(p.Fields))
	for _, f := range p.Fields {
		v := src[f.Name]
		switch f.Kind {
		case KindScalar:
			doc[f.Name] = v
		case KindOne:
			obj, ok := v.(map[string]any)
			if !ok {
				doc[f.Name] = nil
				continue
			}
			doc[f.Name] = pick(obj, f.Sub)
		case KindMany:
			items, _ := v.([]any)
			out := make([]any, 0, len(items))
			for _, it := range items {
				if obj, ok := it.(map[string]any); ok {
					out = append(out, subDocument(obj, f.Sub))
				}
			}
			doc[f.Name] = out
		}
	}
	return doc, nil
}

func pick(obj map[string]any, sub []string) any {
	if len(sub) == 1 {
		return obj[sub[0]]
	}
	return subDocument(obj, sub)
}

func subDocument(obj map[string]any, sub []string) map[string]any {
	out := make(map[string]any, len(sub))
	for _, name := range sub {
		out[name] = obj[name]
	}
	return out
}
