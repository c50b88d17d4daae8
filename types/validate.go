package types

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/oba-ldap/gobj/errs"
)

// Validate coerces/canonicalizes value into the Go representation this
// descriptor stores internally, or fails with *errs.Error{Kind: InvalidValue}.
// path identifies the attribute (or nested element) being validated, and is
// threaded through recursively so errors on e.g. a LIST element point at
// "tags[2]" rather than just "tags".
func (t *Type) Validate(path string, value any) (any, error) {
	switch t.kind {
	case Bool:
		b, ok := value.(bool)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected bool")
		}
		return b, nil

	case Integer, Positive:
		n, ok := asInt64(value)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected integer")
		}
		if t.kind == Positive && n < 0 {
			return nil, errs.NewInvalidValue(path, "expected a non-negative integer")
		}
		return n, nil

	case Float, Number:
		f, ok := asFloat64(value)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected number")
		}
		return f, nil

	case String, HTML, Markdown, RichText, Password:
		s, ok := value.(string)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected string")
		}
		return s, nil

	case Line:
		s, ok := value.(string)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected string")
		}
		if strings.ContainsAny(s, "\r\n") {
			return nil, errs.NewInvalidValue(path, "must not contain newlines")
		}
		return s, nil

	case Email:
		s, ok := value.(string)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected string")
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return nil, errs.NewInvalidValue(path, "not a syntactically valid email address")
		}
		return s, nil

	case URL:
		s, ok := value.(string)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected string")
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" {
			return nil, errs.NewInvalidValue(path, "not a syntactically valid URL")
		}
		return s, nil

	case Date:
		return t.validateTime(path, value, "2006-01-02")
	case Time:
		return t.validateTime(path, value, "15:04:05")
	case DateTime:
		return t.validateTime(path, value, time.RFC3339)

	case Binary:
		switch b := value.(type) {
		case []byte:
			return b, nil
		case string:
			return []byte(b), nil
		default:
			return nil, errs.NewInvalidValue(path, "expected byte string")
		}

	case Any:
		if !isJSONPrimitive(value) {
			return nil, errs.NewInvalidValue(path, "expected a JSON-primitive tree")
		}
		return value, nil

	case List:
		items, ok := asSlice(value)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected a list")
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := t.elem.Validate(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case Tuple:
		items, ok := asSlice(value)
		if !ok || len(items) != len(t.elems) {
			return nil, errs.NewInvalidValue(path, fmt.Sprintf("expected a %d-tuple", len(t.elems)))
		}
		out := make([]any, len(items))
		for i, item := range items {
			v, err := t.elems[i].Validate(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case OneOf:
		var lastErr error
		for _, alt := range t.elems {
			v, err := alt.Validate(path, value)
			if err == nil {
				return v, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = errs.NewInvalidValue(path, "no alternative in ONE_OF")
		}
		return nil, lastErr

	case Map:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected a map")
		}
		out := make(map[string]any, len(t.fields))
		for name, fieldType := range t.fields {
			fv, present := m[name]
			if !present {
				continue
			}
			v, err := fieldType.Validate(path+"."+name, fv)
			if err != nil {
				return nil, err
			}
			out[name] = v
		}
		for name := range m {
			if _, declared := t.fields[name]; !declared {
				return nil, errs.NewInvalidValue(path+"."+name, "undeclared map field")
			}
		}
		return out, nil

	case Enum:
		s, ok := value.(string)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected string")
		}
		for _, label := range t.labels {
			if label == s { // case-sensitive per spec §4.1
				return s, nil
			}
		}
		return nil, errs.NewInvalidValue(path, fmt.Sprintf("%q is not one of %v", s, t.labels))

	case Ref:
		r, ok := asReference(value)
		if !ok {
			return nil, errs.NewInvalidValue(path, "expected a (class, oid) reference")
		}
		if r.OID == "" {
			return nil, errs.NewInvalidValue(path, "reference oid must not be empty")
		}
		if t.target != "" && r.Class != t.target {
			return nil, errs.NewRelationTypeMismatch(path, t.target, r.Class)
		}
		return r, nil

	case Range:
		v, err := t.elem.Validate(path, value)
		if err != nil {
			return nil, err
		}
		if !withinBounds(v, t.lo, t.hi) {
			return nil, errs.NewInvalidValue(path, fmt.Sprintf("value out of range [%v, %v]", t.lo, t.hi))
		}
		return v, nil
	}
	return nil, errs.NewInvalidValue(path, "unknown descriptor kind")
}

func (t *Type) validateTime(path string, value any, layout string) (any, error) {
	switch v := value.(type) {
	case time.Time:
		// Keep only what Serialize writes, so Deserialize(Serialize(v)) == v.
		parsed, err := time.Parse(layout, v.Format(layout))
		if err != nil {
			return nil, errs.NewInvalidValue(path, fmt.Sprintf("expected a %s-formatted value", layout))
		}
		return parsed, nil
	case string:
		parsed, err := time.Parse(layout, v)
		if err != nil {
			return nil, errs.NewInvalidValue(path, fmt.Sprintf("expected a %s-formatted value", layout))
		}
		return parsed, nil
	default:
		return nil, errs.NewInvalidValue(path, "expected time.Time or formatted string")
	}
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

func asSlice(value any) ([]any, bool) {
	items, ok := value.([]any)
	return items, ok
}

func asReference(value any) (Reference, bool) {
	switch v := value.(type) {
	case Reference:
		return v, true
	case map[string]any:
		class, _ := v["type"].(string)
		oid, _ := v["oid"].(string)
		if class == "" && oid == "" {
			return Reference{}, false
		}
		return Reference{Class: class, OID: oid}, true
	default:
		return Reference{}, false
	}
}

func isJSONPrimitive(value any) bool {
	switch v := value.(type) {
	case nil, bool, string, float64, int, int64, []byte:
		return true
	case []any:
		for _, item := range v {
			if !isJSONPrimitive(item) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, item := range v {
			if !isJSONPrimitive(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func withinBounds(value, lo, hi any) bool {
	vf, ok1 := asFloat64(value)
	lof, ok2 := asFloat64(lo)
	hif, ok3 := asFloat64(hi)
	if ok1 && ok2 && ok3 {
		return vf >= lof && vf <= hif
	}
	// Fall back to time.Time bounds for DATE/TIME/DATETIME ranges.
	vt, ok1 := value.(time.Time)
	lot, ok2 := lo.(time.Time)
	hit, ok3 := hi.(time.Time)
	if ok1 && ok2 && ok3 {
		return !vt.Before(lot) && !vt.After(hit)
	}
	return false
}
