package kv

import "strings"

// ObjectKey returns the backend key for a structured object record:
// "collection/oid" (§6 Key layout).
func ObjectKey(collection, oid string) string {
	return collection + "/" + oid
}

// RawDataKey returns the backend key for a StoredRaw's data sibling.
func RawDataKey(collection, oid string) string {
	return collection + "/" + oid + ".data"
}

// RawMetaKey returns the backend key for a StoredRaw's meta sibling.
func RawMetaKey(collection, oid string) string {
	return collection + "/" + oid + ".meta"
}

// IndexKey returns the backend key for one index bucket entry:
// "class/index/encoded_key", with path separators in the raw index key
// escaped so prefix-scoping stays unambiguous (§6).
func IndexKey(class, indexName, indexValue string) string {
	return class + "/" + indexName + "/" + EscapeIndexValue(indexValue)
}

// IndexPrefix returns the backend key prefix covering every entry of one
// (class, index) bucket.
func IndexPrefix(class, indexName string) string {
	return class + "/" + indexName + "/"
}

// EscapeIndexValue replaces path separators and the escape character itself
// so an index key can never be confused with a sibling key's prefix.
func EscapeIndexValue(v string) string {
	v = strings.ReplaceAll(v, "~", "~~")
	v = strings.ReplaceAll(v, "/", "~s")
	return v
}

// UnescapeIndexValue is the inverse of EscapeIndexValue.
func UnescapeIndexValue(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '~' && i+1 < len(v) {
			switch v[i+1] {
			case '~':
				b.WriteByte('~')
				i++
				continue
			case 's':
				b.WriteByte('/')
				i++
				continue
			}
		}
		b.WriteByte(v[i])
	}
	return b.String()
}
