// Package prefs persists the small set of user preferences kept outside
// the entity tables.
package prefs

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"sync"

	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/store"
)

// Preference keys.
const (
	KeySeededDemo = "seeded_demo_v1"
	KeyDemoActive = "demo_active"
	KeyItemSort   = "item_sort"
	KeyItemGroup  = "item_group"
)

// Backend stores raw preference strings.
type Backend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// SQLBackend keeps preferences in the settings table.
type SQLBackend struct {
	db *sql.DB
}

// NewSQLBackend returns a backend over db.
func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return store.GetSetting(ctx, b.db, key)
}

func (b *SQLBackend) Set(ctx context.Context, key, value string) error {
	return store.SetSetting(ctx, b.db, key, value)
}

// MemoryBackend keeps preferences in memory. Used by tests.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
	return nil
}

// Prefs reads and writes typed preferences.
type Prefs struct {
	backend Backend
	logger  *slog.Logger
}

// New returns Prefs over backend. A nil logger uses slog.Default().
func New(backend Backend, logger *slog.Logger) *Prefs {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prefs{backend: backend, logger: logger}
}

func (p *Prefs) getBool(ctx context.Context, key string) (bool, error) {
	raw, ok, err := p.backend.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.logger.Warn("ignoring malformed preference", "key", key, "value", raw)
		return false, nil
	}
	return v, nil
}

func (p *Prefs) setBool(ctx context.Context, key string, v bool) error {
	return p.backend.Set(ctx, key, strconv.FormatBool(v))
}

// HasSeededDemo reports whether demo data was ever seeded into this store.
func (p *Prefs) HasSeededDemo(ctx context.Context) (bool, error) {
	return p.getBool(ctx, KeySeededDemo)
}

// SetSeededDemo records whether demo data was seeded.
func (p *Prefs) SetSeededDemo(ctx context.Context, v bool) error {
	return p.setBool(ctx, KeySeededDemo, v)
}

// DemoActive reports whether demo rows are currently present.
func (p *Prefs) DemoActive(ctx context.Context) (bool, error) {
	return p.getBool(ctx, KeyDemoActive)
}

// SetDemoActive records whether demo rows are present.
func (p *Prefs) SetDemoActive(ctx context.Context, v bool) error {
	return p.setBool(ctx, KeyDemoActive, v)
}

// SortOption returns the stored sort option. Legacy or unknown values are
// resolved and the resolved key is written back.
func (p *Prefs) SortOption(ctx context.Context) (model.SortOption, error) {
	raw, ok, err := p.backend.Get(ctx, KeyItemSort)
	if err != nil {
		return model.DefaultSortOption, err
	}
	if !ok {
		return model.DefaultSortOption, nil
	}

	opt, changed := model.MigrateSortOption(raw)
	if changed {
		p.logger.Info("migrating sort preference", "from", raw, "to", opt)
		if err := p.SetSortOption(ctx, opt); err != nil {
			return opt, err
		}
	}
	return opt, nil
}

// SetSortOption stores the sort option.
func (p *Prefs) SetSortOption(ctx context.Context, opt model.SortOption) error {
	return p.backend.Set(ctx, KeyItemSort, string(opt))
}

// GroupOption returns the stored group option, migrating like SortOption.
func (p *Prefs) GroupOption(ctx context.Context) (model.GroupOption, error) {
	raw, ok, err := p.backend.Get(ctx, KeyItemGroup)
	if err != nil {
		return model.DefaultGroupOption, err
	}
	if !ok {
		return model.DefaultGroupOption, nil
	}

	opt, changed := model.MigrateGroupOption(raw)
	if changed {
		p.logger.Info("migrating group preference", "from", raw, "to", opt)
		if err := p.SetGroupOption(ctx, opt); err != nil {
			return opt, err
		}
	}
	return opt, nil
}

// SetGroupOption stores the group option.
func (p *Prefs) SetGroupOption(ctx context.Context, opt model.GroupOption) error {
	return p.backend.Set(ctx, KeyItemGroup, string(opt))
}
