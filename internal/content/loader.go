// Package content loads the externally supplied gamebook data: the item
// catalog, stat labels, menu labels, and the book manifest. Every loader
// degrades gracefully: a missing or malformed file yields defaults and a
// logged warning, never an abort, so gameplay continues with what is there.
package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/avalight/herobook/internal/config"
	"github.com/avalight/herobook/internal/game/item"
)

// StatLabel is one entry of the ordered stats metadata list. Keys beyond the
// five known stat names carry auxiliary display strings and are kept as-is.
type StatLabel struct {
	Key   string
	Label string
}

// Loader reads content files from the configured directory.
type Loader struct {
	logger *zap.Logger
	cfg    config.ContentConfig
}

// NewLoader creates a Loader for the given content configuration.
//
// Precondition: logger must be non-nil.
func NewLoader(cfg config.ContentConfig, logger *zap.Logger) *Loader {
	return &Loader{logger: logger, cfg: cfg}
}

// LoadManifest reads the book manifest, falling back to defaults on any
// failure.
func (l *Loader) LoadManifest() Manifest {
	path := filepath.Join(l.cfg.Dir, l.cfg.Manifest)
	m, err := LoadManifestFromFile(path)
	if err != nil {
		l.logger.Warn("book manifest unavailable, using defaults",
			zap.String("path", path),
			zap.Error(err),
		)
		return DefaultManifest()
	}
	l.logger.Info("book manifest loaded",
		zap.String("title", m.Title),
		zap.String("start_page", m.StartPage),
	)
	return m
}

// LoadCatalog reads the item catalog. A missing or malformed file yields an
// empty catalog; malformed entries are skipped individually.
func (l *Loader) LoadCatalog(manifest Manifest) *item.Catalog {
	cat := item.NewCatalog()
	path := filepath.Join(l.cfg.Dir, manifest.Items)

	entries, err := readSingleKeyArray(path)
	if err != nil {
		l.logger.Warn("item catalog unavailable, using empty catalog",
			zap.String("path", path),
			zap.Error(err),
		)
		return cat
	}

	for _, e := range entries {
		def, err := decodeItemDef(e.key, e.raw)
		if err != nil {
			l.logger.Warn("skipping malformed item entry",
				zap.String("item", e.key),
				zap.Error(err),
			)
			continue
		}
		cat.Register(def)
	}

	l.logger.Info("item catalog loaded",
		zap.String("path", path),
		zap.Int("items", cat.Len()),
	)
	return cat
}

// LoadStatLabels reads the ordered stats metadata list. Failure yields an
// empty list.
func (l *Loader) LoadStatLabels(manifest Manifest) []StatLabel {
	path := filepath.Join(l.cfg.Dir, manifest.StatsMeta)

	entries, err := readSingleKeyArray(path)
	if err != nil {
		l.logger.Warn("stat labels unavailable",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil
	}

	labels := make([]StatLabel, 0, len(entries))
	for _, e := range entries {
		var label string
		if err := json.Unmarshal(e.raw, &label); err != nil {
			l.logger.Warn("skipping malformed stat label",
				zap.String("key", e.key),
				zap.Error(err),
			)
			continue
		}
		labels = append(labels, StatLabel{Key: e.key, Label: label})
	}
	return labels
}

// LoadMenuLabels reads the menu display strings. Failure yields an empty
// map.
func (l *Loader) LoadMenuLabels(manifest Manifest) map[string]string {
	path := filepath.Join(l.cfg.Dir, manifest.Menu)

	entries, err := readSingleKeyArray(path)
	if err != nil {
		l.logger.Warn("menu labels unavailable",
			zap.String("path", path),
			zap.Error(err),
		)
		return map[string]string{}
	}

	labels := make(map[string]string, len(entries))
	for _, e := range entries {
		var label string
		if err := json.Unmarshal(e.raw, &label); err != nil {
			l.logger.Warn("skipping malformed menu label",
				zap.String("key", e.key),
				zap.Error(err),
			)
			continue
		}
		labels[e.key] = label
	}
	return labels
}

// singleKeyEntry is one element of a "JSON array of single-key objects", the
// wire contract all content files share. Array order is preserved.
type singleKeyEntry struct {
	key string
	raw json.RawMessage
}

func readSingleKeyArray(path string) ([]singleKeyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	entries := make([]singleKeyEntry, 0, len(objects))
	for i, obj := range objects {
		if len(obj) != 1 {
			return nil, fmt.Errorf("entry %d in %s is not a single-key object", i, path)
		}
		for k, v := range obj {
			entries = append(entries, singleKeyEntry{key: k, raw: v})
		}
	}
	return entries, nil
}

// itemEntry is the JSON representation of one catalog item. The option field
// arrives as either a number or a string depending on the book data.
type itemEntry struct {
	Label  string      `json:"label"`
	Type   string      `json:"type"`
	Option json.Number `json:"option"`
}

func decodeItemDef(id string, raw json.RawMessage) (*item.Def, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var e itemEntry
	if err := dec.Decode(&e); err != nil {
		// Retry with a string option.
		var alt struct {
			Label  string `json:"label"`
			Type   string `json:"type"`
			Option string `json:"option"`
		}
		if err2 := json.Unmarshal(raw, &alt); err2 != nil {
			return nil, err
		}
		return &item.Def{ID: id, Label: alt.Label, Type: item.Type(alt.Type), Option: alt.Option}, nil
	}
	return &item.Def{ID: id, Label: e.Label, Type: item.Type(e.Type), Option: e.Option.String()}, nil
}
