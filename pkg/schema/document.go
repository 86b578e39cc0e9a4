// Package schema fetches, caches, and queries the Cloudflare OpenAPI
// schema document.
//
// The document is an 8MB JSON blob keyed by endpoint path. It is
// cached on disk (or in redis) and refreshed when older than the
// configured TTL or on an explicit force fetch. Queries are linear
// scans over the decoded path table, which is plenty for a document of
// this size.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Info holds the schema's top-level metadata.
type Info struct {
	Title   string
	Version string
}

// Operation holds the searchable fields of a single endpoint operation.
type Operation struct {
	Method      string
	Summary     string
	Description string
	OperationID string
}

// Document is a decoded OpenAPI schema.
//
// The generic tree is kept alongside the typed views so that endpoint
// specs can be printed verbatim and $ref pointers resolved anywhere in
// the document.
type Document struct {
	Info Info

	// operations maps path -> operations, HTTP-method entries only
	// (x-* extensions and shared "parameters" blocks are excluded).
	operations map[string][]Operation

	// paths maps path -> the raw path item from the document.
	paths map[string]map[string]any

	root map[string]any
}

// Parse decodes an OpenAPI document from JSON.
// It fails if the blob is not a JSON object or has no paths table.
func Parse(data []byte) (*Document, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	rawPaths, ok := root["paths"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse schema: no paths table")
	}

	doc := &Document{
		operations: make(map[string][]Operation, len(rawPaths)),
		paths:      make(map[string]map[string]any, len(rawPaths)),
		root:       root,
	}

	if info, ok := root["info"].(map[string]any); ok {
		doc.Info.Title = str(info["title"])
		doc.Info.Version = str(info["version"])
	}

	for path, item := range rawPaths {
		pathItem, ok := item.(map[string]any)
		if !ok {
			continue
		}
		doc.paths[path] = pathItem
		doc.operations[path] = extractOperations(pathItem)
	}

	return doc, nil
}

// extractOperations pulls the HTTP-method entries out of a path item.
func extractOperations(pathItem map[string]any) []Operation {
	var ops []Operation
	for method, spec := range pathItem {
		if strings.HasPrefix(method, "x-") || method == "parameters" {
			continue
		}
		opSpec, ok := spec.(map[string]any)
		if !ok {
			continue
		}
		ops = append(ops, Operation{
			Method:      strings.ToUpper(method),
			Summary:     str(opSpec["summary"]),
			Description: str(opSpec["description"]),
			OperationID: str(opSpec["operationId"]),
		})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Method < ops[j].Method })
	return ops
}

// PathCount returns the number of endpoint paths in the document.
func (d *Document) PathCount() int { return len(d.paths) }

// sortedPaths returns all paths in lexical order.
func (d *Document) sortedPaths() []string {
	paths := make([]string, 0, len(d.paths))
	for p := range d.paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// pathMethods returns the method keys of a path item, uppercased,
// excluding x-* extensions.
func pathMethods(pathItem map[string]any) []string {
	var methods []string
	for m := range pathItem {
		if strings.HasPrefix(m, "x-") {
			continue
		}
		methods = append(methods, strings.ToUpper(m))
	}
	sort.Strings(methods)
	return methods
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
