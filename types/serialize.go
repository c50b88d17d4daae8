package types

import (
	"fmt"
	"time"

	"github.com/oba-ldap/gobj/errs"
)

// Serialize produces a primitive tree (bools, numbers, strings, byte slices,
// []any, map[string]any) from a validated value, suitable for any backend.
func (t *Type) Serialize(value any) (any, error) {
	switch t.kind {
	case Bool, Integer, Positive, Float, Number, String, Line, Email, Password,
		URL, HTML, Markdown, RichText, Enum, Binary, Any:
		return value, nil

	case Date:
		return value.(time.Time).Format("2006-01-02"), nil
	case Time:
		return value.(time.Time).Format("15:04:05"), nil
	case DateTime:
		return value.(time.Time).Format(time.RFC3339), nil

	case List, Tuple:
		items := value.([]any)
		elemType := t.elem
		out := make([]any, len(items))
		for i, item := range items {
			et := elemType
			if t.kind == Tuple {
				et = t.elems[i]
			}
			v, err := et.Serialize(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case OneOf:
		for _, alt := range t.elems {
			if _, err := alt.Validate("", value); err == nil {
				return alt.Serialize(value)
			}
		}
		return nil, errs.NewInvalidValue("", "value matches no ONE_OF alternative")

	case Map:
		m := value.(map[string]any)
		out := make(map[string]any, len(m))
		for name, v := range m {
			fieldType, ok := t.fields[name]
			if !ok {
				continue
			}
			sv, err := fieldType.Serialize(v)
			if err != nil {
				return nil, err
			}
			out[name] = sv
		}
		return out, nil

	case Ref:
		r := value.(Reference)
		return map[string]any{"type": r.Class, "oid": r.OID}, nil

	case Range:
		return t.elem.Serialize(value)
	}
	return nil, fmt.Errorf("types: unknown descriptor kind %q", t.kind)
}
