package types

import (
	"time"

	"github.com/oba-ldap/gobj/errs"
)

// Deserialize is the inverse of Serialize; round-tripping a validated value
// through Serialize then Deserialize must be identity (§8).
func (t *Type) Deserialize(primitive any) (any, error) {
	switch t.kind {
	case Bool, Integer, Positive, Float, Number, String, Line, Email, Password,
		URL, HTML, Markdown, RichText, Enum, Binary, Any:
		return t.Validate("", primitive)

	case Date:
		return t.validateTime("", primitive, "2006-01-02")
	case Time:
		return t.validateTime("", primitive, "15:04:05")
	case DateTime:
		return t.validateTime("", primitive, time.RFC3339)

	case List, Tuple:
		items, ok := asSlice(primitive)
		if !ok {
			return nil, errs.NewInvalidValue("", "expected a list")
		}
		out := make([]any, len(items))
		for i, item := range items {
			et := t.elem
			if t.kind == Tuple {
				if i >= len(t.elems) {
					return nil, errs.NewInvalidValue("", "tuple has too many elements")
				}
				et = t.elems[i]
			}
			v, err := et.Deserialize(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case OneOf:
		var lastErr error
		for _, alt := range t.elems {
			v, err := alt.Deserialize(primitive)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = errs.NewInvalidValue("", "no ONE_OF alternative matched")
		}
		return nil, lastErr

	case Map:
		m, ok := primitive.(map[string]any)
		if !ok {
			return nil, errs.NewInvalidValue("", "expected a map")
		}
		out := make(map[string]any, len(m))
		for name, fieldType := range t.fields {
			v, present := m[name]
			if !present {
				continue
			}
			dv, err := fieldType.Deserialize(v)
			if err != nil {
				return nil, err
			}
			out[name] = dv
		}
		return out, nil

	case Ref:
		r, ok := asReference(primitive)
		if !ok {
			return nil, errs.NewInvalidValue("", "expected a reference stub")
		}
		return r, nil

	case Range:
		return t.elem.Deserialize(primitive)
	}
	return nil, errs.NewInvalidValue("", "unknown descriptor kind")
}
