package settings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/calendar"
)

const reloadDebounce = 100 * time.Millisecond

// document is the on-disk layout. Department entries only need the fields
// they change; everything else is inherited from default.
type document struct {
	Default     yaml.Node            `yaml:"default"`
	Departments map[string]yaml.Node `yaml:"departments"`
}

type snapshot struct {
	def         calendar.Config
	departments map[string]calendar.Config
}

// FileProvider reads calendar rules from a YAML file and reloads them when the file changes.
type FileProvider struct {
	path string
	base calendar.Config

	mu       sync.RWMutex
	current  *snapshot
	onChange []func()
}

// NewFileProvider loads path, layering it over base.
func NewFileProvider(path string, base calendar.Config) (*FileProvider, error) {
	p := &FileProvider{path: path, base: base}
	snap, err := p.load()
	if err != nil {
		return nil, err
	}
	p.current = snap
	return p, nil
}

// OnChange registers fn to run after every successful reload.
func (p *FileProvider) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = append(p.onChange, fn)
	p.mu.Unlock()
}

// GetCalendarConfig implements calendar.SettingsProvider.
func (p *FileProvider) GetCalendarConfig(ctx context.Context, department string) (calendar.Config, error) {
	p.mu.RLock()
	snap := p.current
	p.mu.RUnlock()

	if snap == nil {
		return calendar.Config{}, calendar.ErrSettingsNotLoaded
	}
	return resolve(snap.def, snap.departments, department), nil
}

// IsWorkingDay implements calendar.SettingsProvider.
func (p *FileProvider) IsWorkingDay(ctx context.Context, date time.Time, department string) (bool, error) {
	cfg, err := p.GetCalendarConfig(ctx, department)
	if err != nil {
		return false, err
	}
	return isWorkingDay(cfg, date), nil
}

// Reload re-reads the file. An invalid file keeps the current rules.
func (p *FileProvider) Reload() error {
	snap, err := p.load()
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.current = snap
	handlers := append([]func(){}, p.onChange...)
	p.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
	slog.Info("Calendar settings reloaded", "path", p.path, "departments", len(snap.departments))
	return nil
}

func (p *FileProvider) load() (*snapshot, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar settings: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse calendar settings: %w", err)
	}

	def := p.base
	if !doc.Default.IsZero() {
		if err := doc.Default.Decode(&def); err != nil {
			return nil, fmt.Errorf("failed to decode default calendar: %w", err)
		}
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("default calendar: %w", err)
	}

	departments := make(map[string]calendar.Config, len(doc.Departments))
	for name, node := range doc.Departments {
		cfg := def
		// Decoding onto a copy would otherwise share the default's slices.
		cfg.NonWorkingWeekdays = append([]time.Weekday(nil), def.NonWorkingWeekdays...)
		cfg.NonWorkingSaturdays = append([]int(nil), def.NonWorkingSaturdays...)
		if err := node.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to decode calendar for department %q: %w", name, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("calendar for department %q: %w", name, err)
		}
		cfg.Department = name
		departments[name] = cfg
	}

	return &snapshot{def: def, departments: departments}, nil
}

// Watch reloads the file whenever it is written or replaced, until ctx is done.
func (p *FileProvider) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory so editors that save by rename are picked up.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch calendar settings: %w", err)
	}

	go p.watchLoop(ctx, watcher)
	slog.Info("Calendar settings watcher started", "path", p.path)
	return nil
}

func (p *FileProvider) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Calendar settings watcher stopped", "path", p.path)
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(p.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(reloadDebounce, func() {
				if err := p.Reload(); err != nil {
					slog.Error("Failed to reload calendar settings, keeping current", "path", p.path, "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Calendar settings watcher error", "error", err)
		}
	}
}
