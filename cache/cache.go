package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store keeps rendered public responses on disk under Dir/<locale>/.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "cache"
	}
	return &Store{Dir: dir}
}

// Path returns the cache file path for a rendered page
func (s *Store) Path(locale, slug string) string {
	hash := generateHash(locale + slug)
	shortHash := hash[:16]
	return filepath.Join(s.Dir, locale, fmt.Sprintf("%s_%s.json", slug, shortHash))
}

// generateHash generates an xxHash hash for the given string
func generateHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// Write stores a rendered body for locale and slug
func (s *Store) Write(locale, slug string, body []byte) error {
	if err := os.MkdirAll(filepath.Join(s.Dir, locale), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.Path(locale, slug), body, 0644)
}

// Read returns the cached body if it exists and is younger than maxAge
func (s *Store) Read(locale, slug string, maxAge time.Duration) ([]byte, bool) {
	path := s.Path(locale, slug)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > maxAge {
		return nil, false
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return content, true
}

// Clear removes the cache file of one page
func (s *Store) Clear(locale, slug string) error {
	err := os.Remove(s.Path(locale, slug))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ClearAll drops every cached page of every locale
func (s *Store) ClearAll() error {
	return os.RemoveAll(s.Dir)
}

// ClearOld removes cache files older than maxAge
func (s *Store) ClearOld(maxAge time.Duration) error {
	err := filepath.Walk(s.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
