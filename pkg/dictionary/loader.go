package dictionary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/pkg/config"
	"golang.org/x/sync/errgroup"
)

// ErrTierNotFound is returned when a tier name is not configured or not loaded.
var ErrTierNotFound = errors.New("tier not found")

// Loader holds the dictionaries of every configured tier.
type Loader struct {
	dataDir string
	tiers   []config.TierConfig
	dicts   map[string]*Dictionary
	loaded  time.Time
	mu      sync.RWMutex
}

// LoaderStats describes what is currently loaded.
type LoaderStats struct {
	Tiers      []TierStats
	TotalWords int
	LoadedAt   time.Time
}

// TierStats describes one loaded tier.
type TierStats struct {
	Name   string `msgpack:"name"`
	File   string `msgpack:"file"`
	Length int    `msgpack:"length"`
	Words  int    `msgpack:"words"`
}

// NewLoader creates a loader for the given data directory and tiers.
func NewLoader(dataDir string, tiers []config.TierConfig) *Loader {
	return &Loader{
		dataDir: dataDir,
		tiers:   slices.Clone(tiers),
		dicts:   make(map[string]*Dictionary, len(tiers)),
	}
}

// LoadAll reads every tier concurrently. On any failure nothing is replaced.
func (l *Loader) LoadAll(ctx context.Context) error {
	if len(l.tiers) == 0 {
		return fmt.Errorf("no dictionary tiers configured")
	}
	start := time.Now()

	loaded := make([]*Dictionary, len(l.tiers))
	g, ctx := errgroup.WithContext(ctx)
	for i, tier := range l.tiers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := l.loadTier(tier)
			if err != nil {
				return err
			}
			loaded[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	dicts := make(map[string]*Dictionary, len(loaded))
	total := 0
	for _, d := range loaded {
		dicts[d.Name] = d
		total += d.Len()
	}

	l.mu.Lock()
	l.dicts = dicts
	l.loaded = time.Now()
	l.mu.Unlock()

	log.Debugf("Loaded %d tiers (%d words) in %v", len(loaded), total, time.Since(start))
	return nil
}

// loadTier reads a tier file, preferring a msgpack cache that is newer than
// the text list it was built from.
func (l *Loader) loadTier(tier config.TierConfig) (*Dictionary, error) {
	path := l.tierPath(tier)
	if cache := cachePath(path, tier.Length); cache != path && isFresh(cache, path) {
		d, err := LoadNamed(tier.Name, cache, tier.Length)
		if err == nil {
			log.Debugf("Tier %s loaded from cache %s", tier.Name, cache)
			return d, nil
		}
		log.Warnf("Ignoring cache %s: %v", cache, err)
	}
	d, err := LoadNamed(tier.Name, path, tier.Length)
	if err != nil {
		return nil, fmt.Errorf("tier %s: %w", tier.Name, err)
	}
	if d.Len() == 0 {
		log.Warnf("Tier %s has no words of length %d in %s", tier.Name, tier.Length, path)
	}
	if dup := d.Entries() - d.Len(); dup > 0 {
		log.Debugf("Tier %s lists %d repeated words", tier.Name, dup)
	}
	return d, nil
}

func (l *Loader) tierPath(tier config.TierConfig) string {
	if filepath.IsAbs(tier.File) {
		return tier.File
	}
	return filepath.Join(l.dataDir, tier.File)
}

// cachePath names the msgpack cache of a text list. The tier length is part of
// the name because the cache only holds words of that length.
func cachePath(path string, length int) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if length > 0 {
		base += "." + strconv.Itoa(length)
	}
	return base + supportedFormats[FormatMsgpack].Extension
}

func isFresh(cache, source string) bool {
	c, err := os.Stat(cache)
	if err != nil {
		return false
	}
	s, err := os.Stat(source)
	if err != nil {
		return true
	}
	return !c.ModTime().Before(s.ModTime())
}

// Get returns a loaded tier by name.
func (l *Loader) Get(name string) (*Dictionary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	d, ok := l.dicts[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrTierNotFound)
	}
	return d, nil
}

// Tiers returns the named tiers ordered by descending word length, keeping
// config order between tiers of equal length. With no names every loaded
// tier is returned.
func (l *Loader) Tiers(names ...string) ([]*Dictionary, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(names) == 0 {
		for _, tier := range l.tiers {
			names = append(names, tier.Name)
		}
	}

	out := make([]*Dictionary, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		d, ok := l.dicts[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrTierNotFound)
		}
		out = append(out, d)
	}
	slices.SortStableFunc(out, func(a, b *Dictionary) int {
		return b.Length - a.Length
	})
	return out, nil
}

// Stats reports the loaded tiers in config order.
func (l *Loader) Stats() LoaderStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := LoaderStats{LoadedAt: l.loaded}
	for _, tier := range l.tiers {
		d, ok := l.dicts[tier.Name]
		if !ok {
			continue
		}
		stats.Tiers = append(stats.Tiers, TierStats{
			Name:   tier.Name,
			File:   tier.File,
			Length: tier.Length,
			Words:  d.Len(),
		})
		stats.TotalWords += d.Len()
	}
	return stats
}
