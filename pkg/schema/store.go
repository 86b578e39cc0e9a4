package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/cfkit/cfkit/pkg/cache"
)

// Cache keys for the schema document and its metadata. Both entries
// are stored without expiry; freshness is judged from Meta.CachedAt so
// a failed refresh can still fall back to the stale document.
const (
	docKey  = "schema:openapi"
	metaKey = "schema:meta"
)

// downloadTimeout bounds the schema download. The document is large,
// so this is generous compared to API calls.
const downloadTimeout = 60 * time.Second

// DefaultTTL is how long a cached schema counts as fresh.
const DefaultTTL = 24 * time.Hour

// Meta describes a cached schema document.
type Meta struct {
	CachedAt  time.Time `json:"cached_at"`
	Version   string    `json:"version"`
	PathCount int       `json:"paths_count"`
}

// Result is a loaded schema with its provenance.
type Result struct {
	Doc       *Document
	Meta      Meta
	FromCache bool // served from cache (fresh or stale)
	Stale     bool // cache older than the TTL, download failed
}

// Store fetches the schema document and serves it from cache.
type Store struct {
	cache  cache.Cache
	http   *http.Client
	url    string
	ttl    time.Duration
	logger *charmlog.Logger
}

// NewStore creates a schema store. Pass nil for logger to use the
// default logger; ttl <= 0 means [DefaultTTL].
func NewStore(c cache.Cache, url string, ttl time.Duration, logger *charmlog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Store{
		cache:  c,
		http:   &http.Client{Timeout: downloadTimeout},
		url:    url,
		ttl:    ttl,
		logger: logger,
	}
}

// Load returns the schema, downloading it only when the cache is
// missing or stale.
func (s *Store) Load(ctx context.Context) (*Result, error) {
	return s.Fetch(ctx, false)
}

// Fetch returns the schema. With force, the cache freshness check is
// skipped and the document is downloaded again. If the download fails
// and a stale copy exists, the stale copy is returned with a warning.
func (s *Store) Fetch(ctx context.Context, force bool) (*Result, error) {
	cached, meta := s.cached(ctx)

	if !force && cached != nil && s.fresh(meta) {
		s.logger.Debugf("using cached schema (< %s old)", s.ttl)
		doc, err := Parse(cached)
		if err == nil {
			return &Result{Doc: doc, Meta: meta, FromCache: true}, nil
		}
		s.logger.Warnf("cached schema unreadable, refetching: %v", err)
	}

	data, err := s.download(ctx)
	if err != nil {
		if cached != nil {
			s.logger.Warnf("schema download failed, falling back to stale cache: %v", err)
			doc, parseErr := Parse(cached)
			if parseErr == nil {
				return &Result{Doc: doc, Meta: meta, FromCache: true, Stale: true}, nil
			}
		}
		return nil, fmt.Errorf("fetch schema: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	meta = Meta{
		CachedAt:  time.Now(),
		Version:   doc.Info.Version,
		PathCount: doc.PathCount(),
	}
	s.save(ctx, data, meta)

	return &Result{Doc: doc, Meta: meta}, nil
}

// CachedMeta returns the cached metadata without touching the document.
func (s *Store) CachedMeta(ctx context.Context) (Meta, bool) {
	raw, ok, err := s.cache.Get(ctx, metaKey)
	if err != nil || !ok {
		return Meta{}, false
	}
	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Meta{}, false
	}
	return meta, true
}

// TTL returns the configured freshness window.
func (s *Store) TTL() time.Duration { return s.ttl }

func (s *Store) fresh(meta Meta) bool {
	return !meta.CachedAt.IsZero() && time.Since(meta.CachedAt) < s.ttl
}

func (s *Store) cached(ctx context.Context) ([]byte, Meta) {
	data, ok, err := s.cache.Get(ctx, docKey)
	if err != nil || !ok {
		return nil, Meta{}
	}
	meta, _ := s.CachedMeta(ctx)
	return data, meta
}

func (s *Store) save(ctx context.Context, data []byte, meta Meta) {
	if err := s.cache.Set(ctx, docKey, data, 0); err != nil {
		s.logger.Warnf("cache schema: %v", err)
		return
	}
	rawMeta, err := json.Marshal(meta)
	if err == nil {
		err = s.cache.Set(ctx, metaKey, rawMeta, 0)
	}
	if err != nil {
		s.logger.Warnf("cache schema metadata: %v", err)
	}
}

func (s *Store) download(ctx context.Context) ([]byte, error) {
	s.logger.Debug("downloading schema", "url", s.url)

	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return err
		}
		resp, err := s.http.Do(req)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", cache.ErrNotFound, s.url)
		case resp.StatusCode >= 500:
			return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode))
		default:
			return fmt.Errorf("%w: status %d", cache.ErrNetwork, resp.StatusCode)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	return data, err
}
