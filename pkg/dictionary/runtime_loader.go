package dictionary

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/pkg/config"
)

// Reload rereads a single tier from disk and swaps it in.
// The old dictionary stays in place if the read fails.
func (l *Loader) Reload(name string) error {
	tier, ok := l.tierConfig(name)
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrTierNotFound)
	}
	d, err := l.loadTier(tier)
	if err != nil {
		return err
	}

	l.mu.Lock()
	old := l.dicts[name]
	l.dicts[name] = d
	l.loaded = time.Now()
	l.mu.Unlock()

	if old != nil {
		log.Infof("Reloaded tier %s: %d -> %d words", name, old.Len(), d.Len())
	} else {
		log.Infof("Loaded tier %s: %d words", name, d.Len())
	}
	return nil
}

// BuildCache writes a .mpk file next to every loaded text tier so the next
// LoadAll can skip normalization. It returns the paths written.
func (l *Loader) BuildCache() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var written []string
	for _, tier := range l.tiers {
		d, ok := l.dicts[tier.Name]
		if !ok {
			continue
		}
		path := l.tierPath(tier)
		if format, _ := DetectFileFormat(path); format != FormatText {
			continue
		}
		cache := cachePath(path, tier.Length)
		if err := Save(cache, d); err != nil {
			return written, fmt.Errorf("tier %s: %w", tier.Name, err)
		}
		log.Debugf("Wrote cache for tier %s: %s", tier.Name, cache)
		written = append(written, cache)
	}
	return written, nil
}

func (l *Loader) tierConfig(name string) (tier config.TierConfig, ok bool) {
	for _, t := range l.tiers {
		if t.Name == name {
			return t, true
		}
	}
	return tier, false
}
