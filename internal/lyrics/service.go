package lyrics

import (
	"context"
	"fmt"
	"os"

	"github.com/verte-zerg/lyrictype/internal/store"
)

// Fetcher retrieves lyrics for a song title.
type Fetcher interface {
	Fetch(ctx context.Context, title string) (Result, error)
}

// Cache stores fetched lyrics between runs.
type Cache interface {
	GetLyrics(ctx context.Context, title, model string) (store.CachedLyrics, bool, error)
	PutLyrics(ctx context.Context, entry store.CachedLyrics) error
}

// Service answers lyrics lookups from the cache before calling the fetcher.
type Service struct {
	fetcher Fetcher
	cache   Cache
	model   string
	refresh bool
}

// NewService wraps a fetcher with an optional cache.
func NewService(fetcher Fetcher, cache Cache, model string, refresh bool) *Service {
	return &Service{fetcher: fetcher, cache: cache, model: model, refresh: refresh}
}

// Lookup returns lyrics for the title.
func (s *Service) Lookup(ctx context.Context, title string) (Result, error) {
	if s.cache != nil && !s.refresh {
		cached, ok, err := s.cache.GetLyrics(ctx, title, s.model)
		if err != nil {
			logErrf("failed to read lyrics cache: %v\n", err)
		} else if ok {
			return Result{
				Title:   cached.Title,
				Model:   cached.Model,
				Lyrics:  cached.Lyrics,
				Sources: sourcesFromURLs(cached.Sources),
				Cached:  true,
			}, nil
		}
	}
	res, err := s.fetcher.Fetch(ctx, title)
	if err != nil {
		return Result{}, err
	}
	if s.cache != nil {
		entry := store.CachedLyrics{
			Title:   res.Title,
			Model:   s.model,
			Lyrics:  res.Lyrics,
			Sources: sourceURLs(res.Sources),
		}
		if err := s.cache.PutLyrics(ctx, entry); err != nil {
			logErrf("failed to write lyrics cache: %v\n", err)
		}
	}
	return res, nil
}

func sourceURLs(sources []Source) []string {
	out := make([]string, 0, len(sources))
	for _, src := range sources {
		out = append(out, src.URL)
	}
	return out
}

func sourcesFromURLs(urls []string) []Source {
	out := make([]Source, 0, len(urls))
	for _, u := range urls {
		out = append(out, Source{URL: u})
	}
	return out
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
