package indexmanager

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/oba-ldap/gobj/objectstore"
)

func propString(obj *objectstore.Object, propName string) (string, bool) {
	v, err := obj.Get(propName)
	if err != nil || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	default:
		return fmt.Sprint(s), true
	}
}

// Value is the identity indexer: the property's value, unmodified (§4.4).
func Value(propName string) objectstore.IndexerFunc {
	return func(_ string, obj *objectstore.Object) ([]string, error) {
		s, ok := propString(obj, propName)
		if !ok {
			return nil, nil
		}
		return []string{s}, nil
	}
}

// Normalize lowercases, trims, and collapses internal whitespace (§4.4).
func Normalize(propName string) objectstore.IndexerFunc {
	return func(_ string, obj *objectstore.Object) ([]string, error) {
		s, ok := propString(obj, propName)
		if !ok {
			return nil, nil
		}
		return []string{normalizeString(s)}, nil
	}
}

func normalizeString(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, " ")
}

var accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NoAccents compatibility-decomposes and drops combining marks (§4.4).
func NoAccents(propName string) objectstore.IndexerFunc {
	return func(_ string, obj *objectstore.Object) ([]string, error) {
		s, ok := propString(obj, propName)
		if !ok {
			return nil, nil
		}
		return []string{stripAccents(s)}, nil
	}
}

func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// Keyword is Normalize then NoAccents (§4.4).
func Keyword(propName string) objectstore.IndexerFunc {
	return func(_ string, obj *objectstore.Object) ([]string, error) {
		s, ok := propString(obj, propName)
		if !ok {
			return nil, nil
		}
		return []string{keywordOf(s)}, nil
	}
}

func keywordOf(s string) string {
	return stripAccents(normalizeString(s))
}

// Keywords tokenizes the named properties' values on non-letter runs,
// keywordizes each token, drops tokens shorter than minLen, and deduplicates
// (§4.4, §8 scenario 4).
func Keywords(propNames []string, minLen int) objectstore.IndexerFunc {
	if minLen <= 0 {
		minLen = 3
	}
	return func(_ string, obj *objectstore.Object) ([]string, error) {
		seen := map[string]bool{}
		var out []string
		for _, propName := range propNames {
			s, ok := propString(obj, propName)
			if !ok {
				continue
			}
			for _, tok := range tokenize(s) {
				kw := keywordOf(tok)
				if len(kw) < minLen || seen[kw] {
					continue
				}
				seen[kw] = true
				out = append(out, kw)
			}
		}
		return out, nil
	}
}

func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// UpdateTime indexes the formatted timestamp of updates["oid"] (§4.4).
func UpdateTime() objectstore.IndexerFunc {
	return func(_ string, obj *objectstore.Object) ([]string, error) {
		ts, ok := obj.UpdatedAt("oid")
		if !ok {
			return nil, nil
		}
		return []string{ts.UTC().Format(time.RFC3339)}, nil
	}
}

// Paths splits a path-shaped property value into cumulative prefixes:
// "a/b/c" -> {"a", "a/b", "a/b/c"} (§4.4).
func Paths(propName, sep string) objectstore.IndexerFunc {
	if sep == "" {
		sep = "/"
	}
	return func(_ string, obj *objectstore.Object) ([]string, error) {
		s, ok := propString(obj, propName)
		if !ok || s == "" {
			return nil, nil
		}
		parts := strings.Split(s, sep)
		out := make([]string, 0, len(parts))
		var prefix string
		for i, p := range parts {
			if i == 0 {
				prefix = p
			} else {
				prefix = prefix + sep + p
			}
			out = append(out, prefix)
		}
		return out, nil
	}
}
