package schema

import "strings"

// DefaultExpandDepth is how many levels of $ref indirection get
// inlined when printing an endpoint spec. Two levels is enough to see
// request and response shapes without dumping the whole component tree.
const DefaultExpandDepth = 2

// ResolveRef follows a local JSON pointer ("#/components/...") to its
// definition. External refs and dangling pointers return false.
func (d *Document) ResolveRef(ref string) (any, bool) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, false
	}

	var current any = d.root
	for _, part := range strings.Split(ref[2:], "/") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = obj[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// Expand returns a copy of v with single-key {"$ref": "..."} objects
// replaced by their definitions, up to depth levels deep. Each
// resolved ref consumes one level, which also bounds cyclic refs.
// Unresolvable refs are annotated instead of replaced.
func (d *Document) Expand(v any, depth int) any {
	if depth <= 0 {
		return v
	}

	switch val := v.(type) {
	case map[string]any:
		if ref, ok := refPointer(val); ok {
			resolved, found := d.ResolveRef(ref)
			if !found {
				return map[string]any{"$ref": ref, "_error": "could not resolve"}
			}
			return d.Expand(resolved, depth-1)
		}
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = d.Expand(child, depth)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = d.Expand(child, depth)
		}
		return out
	default:
		return v
	}
}

// refPointer reports whether obj is a pure reference object.
func refPointer(obj map[string]any) (string, bool) {
	if len(obj) != 1 {
		return "", false
	}
	ref, ok := obj["$ref"].(string)
	return ref, ok
}
