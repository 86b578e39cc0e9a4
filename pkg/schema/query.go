package schema

import (
	"sort"
	"strings"
)

// maxSummary is the display truncation length for operation summaries.
const maxSummary = 100

// SearchResult is a single operation matched by a keyword search.
type SearchResult struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Summary     string `json:"summary"`
	OperationID string `json:"operationId,omitempty"`
}

// Search finds operations whose path, summary, description, or
// operationId contains query (case-insensitive). Results are ordered
// by path, then method.
func (d *Document) Search(query string) []SearchResult {
	q := strings.ToLower(query)

	var results []SearchResult
	for _, path := range d.sortedPaths() {
		for _, op := range d.operations[path] {
			searchable := strings.ToLower(path + " " + op.Summary + " " + op.Description + " " + op.OperationID)
			if !strings.Contains(searchable, q) {
				continue
			}
			summary := op.Summary
			if len(summary) > maxSummary {
				summary = summary[:maxSummary] + "..."
			}
			results = append(results, SearchResult{
				Path:        path,
				Method:      op.Method,
				Summary:     summary,
				OperationID: op.OperationID,
			})
		}
	}
	return results
}

// Endpoint is a lookup result: the canonical path and its raw path item.
type Endpoint struct {
	Path    string
	Methods map[string]any
}

// Lookup finds the endpoint for path. It tries an exact match, then a
// leading-slash-normalized match, then the first substring match in
// lexical order. Returns false if nothing matches.
func (d *Document) Lookup(path string) (*Endpoint, bool) {
	if item, ok := d.paths[path]; ok {
		return &Endpoint{Path: path, Methods: item}, true
	}

	alt := path
	if !strings.HasPrefix(alt, "/") {
		alt = "/" + alt
	}
	if item, ok := d.paths[alt]; ok {
		return &Endpoint{Path: alt, Methods: item}, true
	}

	for _, p := range d.sortedPaths() {
		if strings.Contains(p, path) {
			return &Endpoint{Path: p, Methods: d.paths[p]}, true
		}
	}
	return nil, false
}

// Similar returns up to limit paths containing path (case-insensitive),
// for "did you mean" suggestions after a failed lookup.
func (d *Document) Similar(path string, limit int) []string {
	needle := strings.ToLower(path)

	var similar []string
	for _, p := range d.sortedPaths() {
		if strings.Contains(strings.ToLower(p), needle) {
			similar = append(similar, p)
			if len(similar) == limit {
				break
			}
		}
	}
	return similar
}

// PathMethods pairs a path with its HTTP methods for listings.
type PathMethods struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

// List returns all paths in lexical order, optionally filtered by
// prefix. An empty prefix matches everything.
func (d *Document) List(prefix string) []PathMethods {
	var result []PathMethods
	for _, path := range d.sortedPaths() {
		if prefix != "" && !strings.HasPrefix(path, prefix) {
			continue
		}
		result = append(result, PathMethods{
			Path:    path,
			Methods: pathMethods(d.paths[path]),
		})
	}
	return result
}

// Stats summarizes the document for the info command.
type Stats struct {
	Title          string
	Version        string
	TotalEndpoints int
	Methods        map[string]int
	TopLevelPaths  []string
}

// maxTopLevel caps the top-level path listing in Stats.
const maxTopLevel = 20

// Stats computes document-wide statistics: per-method operation counts
// and the first path segments present in the schema.
func (d *Document) Stats() Stats {
	methods := make(map[string]int)
	prefixes := make(map[string]bool)

	for path, item := range d.paths {
		for _, m := range pathMethods(item) {
			methods[m]++
		}
		segments := strings.Split(strings.Trim(path, "/"), "/")
		if len(segments) > 0 && segments[0] != "" {
			prefixes["/"+segments[0]] = true
		}
	}

	top := make([]string, 0, len(prefixes))
	for p := range prefixes {
		top = append(top, p)
	}
	sort.Strings(top)
	if len(top) > maxTopLevel {
		top = top[:maxTopLevel]
	}

	return Stats{
		Title:          d.Info.Title,
		Version:        d.Info.Version,
		TotalEndpoints: len(d.paths),
		Methods:        methods,
		TopLevelPaths:  top,
	}
}
