package resolver

import "strings"

// fieldPath is a key path into a decoded JSON object.
type fieldPath []string

func (p fieldPath) String() string { return strings.Join(p, ".") }

// lookup walks v along p. It reports false when a segment is missing, a
// value on the way is not an object, or the final value is null.
func (p fieldPath) lookup(v any) (any, bool) {
	cur := v
	for _, key := range p {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	default:
		return nil, false
	}
}

// Probe rules, in priority order.
var (
	nextIDPaths = []fieldPath{
		{"data", "next_parcel_id"},
		{"next_parcel_id"},
	}
	parcelsHandlePaths = []fieldPath{
		{"data", "parcels", "handle"},
		{"data", "parcels"},
		{"parcels"},
	}
)

// firstMatch returns the first value found along paths that accept allows.
func firstMatch(v any, paths []fieldPath, accept func(any) bool) (any, fieldPath, bool) {
	for _, p := range paths {
		got, ok := p.lookup(v)
		if ok && accept(got) {
			return got, p, true
		}
	}
	return nil, nil, false
}

func anyValue(any) bool { return true }

// tableHandle accepts only non-empty strings, so an object found at
// data.parcels (the table itself) is not mistaken for its handle.
func tableHandle(v any) bool {
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}
