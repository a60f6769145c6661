package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wricardo/drone-sim/game/engine"
	"github.com/wricardo/drone-sim/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// layoutExtensions lists the file types searched, in lookup order
var layoutExtensions = []string{".json", ".yaml", ".yml"}

// Manager handles obstacle layout loading and caching.
// The built-in classroom layout is always available unless a file with the
// same id overrides it.
type Manager struct {
	configDir string
	defaultID string
	configs   map[string]*engine.Layout
	mu        sync.RWMutex
}

// NewManager creates a new configuration manager. An empty configDir serves
// only the built-in classroom layout.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	return &Manager{
		configDir: configDir,
		defaultID: engine.DefaultLayoutName,
		configs:   make(map[string]*engine.Layout),
	}, nil
}

// LoadConfig loads a layout by id. The id is the file name without extension.
func (m *Manager) LoadConfig(name string) (*engine.Layout, error) {
	id := layoutID(name)
	if !validLayoutID(id) {
		return nil, fmt.Errorf("%w: invalid layout id %q", ErrInvalidConfig, name)
	}

	m.mu.RLock()
	// Check cache first
	if layout, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return layout, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if layout, exists := m.configs[id]; exists {
		return layout, nil
	}

	layout, err := m.readLayout(id)
	if err != nil {
		return nil, err
	}

	if idx := engine.OriginBlockedBy(layout); idx >= 0 {
		o := layout.Obstacles[idx]
		log.Warn("layout covers the reset position", "layout", id, "obstacle", idx+1,
			"x", o.X, "y", o.Y, "width", o.Width, "height", o.Height)
	}

	m.configs[id] = layout
	return layout, nil
}

// readLayout finds id in the config directory or falls back to the built-in layout
func (m *Manager) readLayout(id string) (*engine.Layout, error) {
	if m.configDir != "" {
		for _, ext := range layoutExtensions {
			path := filepath.Join(m.configDir, id+ext)
			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			layout, err := engine.ParseLayout(ext, data)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, id+ext, err)
			}
			if err := engine.ValidateLayout(layout); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
			return layout, nil
		}
	}

	if id == engine.DefaultLayoutName {
		return engine.DefaultLayout(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, id)
}

// ListConfigs returns information about all loadable layouts, sorted by id
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	filenames := map[string]string{engine.DefaultLayoutName: "(built-in)"}

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isLayoutFile(entry.Name()) {
				continue
			}
			id := layoutID(entry.Name())
			if prev, seen := filenames[id]; seen && prev != "(built-in)" {
				continue
			}
			filenames[id] = entry.Name()
		}
	}

	ids := make([]string, 0, len(filenames))
	for id := range filenames {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var configs []*service.ConfigInfo
	for _, id := range ids {
		layout, err := m.LoadConfig(id)
		if err != nil {
			log.Warn("skipping invalid layout", "file", filenames[id], "err", err)
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:     filenames[id],
			ConfigID:     id, // This is the identifier to use for session creation
			Name:         layout.Name,
			Description:  layout.Description,
			Obstacles:    len(layout.Obstacles),
			CoveredCells: engine.CoveredCells(layout.Obstacles),
			OriginClear:  engine.OriginBlockedBy(layout) < 0,
		})
	}

	return configs, nil
}

// GetDefault returns the default layout. A broken default file falls back to
// the built-in classroom.
func (m *Manager) GetDefault() *engine.Layout {
	layout, err := m.LoadConfig(m.DefaultID())
	if err != nil {
		log.Warn("default layout unavailable, using built-in", "id", m.DefaultID(), "err", err)
		return engine.DefaultLayout()
	}
	return layout
}

// DefaultID returns the id of the default layout
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default layout by id
func (m *Manager) SetDefault(name string) error {
	if _, err := m.LoadConfig(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = layoutID(name)
	return nil
}

// RefreshCache drops all cached layouts so the next lookup rereads disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = make(map[string]*engine.Layout)
}

// Count returns the number of cached layouts
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

func isLayoutFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range layoutExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// layoutID strips a known layout extension from name
// validLayoutID keeps lookups inside the config directory
func validLayoutID(id string) bool {
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

func layoutID(name string) string {
	if isLayoutFile(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
