package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	domainConfig "retroboard/domain/config"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const reloadDebounce = 100 * time.Millisecond

// AnalyticsProvider serves the analytics thresholds in effect. When backed by
// a YAML file it reloads the file on change; invalid contents are logged and
// the previous values stay in place.
type AnalyticsProvider struct {
	base    *domainConfig.AnalyticsConfig
	path    string
	current atomic.Pointer[domainConfig.AnalyticsConfig]

	mu        sync.Mutex
	callbacks []func(*domainConfig.AnalyticsConfig)
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}

	logger *zap.Logger
}

// NewAnalyticsProvider creates a provider. With an empty path it always
// returns base. Otherwise the file must exist and hold a valid configuration.
func NewAnalyticsProvider(base *domainConfig.AnalyticsConfig, path string, logger *zap.Logger) (*AnalyticsProvider, error) {
	if base == nil {
		base = domainConfig.DefaultAnalyticsConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &AnalyticsProvider{
		base:   base.Clone(),
		path:   path,
		logger: logger,
	}
	p.current.Store(p.base)

	if path == "" {
		return p, nil
	}

	cfg, err := p.load()
	if err != nil {
		return nil, err
	}
	p.current.Store(cfg)

	return p, nil
}

// Current implements ports.AnalyticsConfigProvider
func (p *AnalyticsProvider) Current() *domainConfig.AnalyticsConfig {
	return p.current.Load()
}

// OnChange registers a callback run after every successful reload
func (p *AnalyticsProvider) OnChange(fn func(*domainConfig.AnalyticsConfig)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// Watch starts reloading the file on change. It is a no-op without a file.
func (p *AnalyticsProvider) Watch() error {
	if p.path == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.watcher != nil {
		return nil
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Editors replace files on save, so the directory is watched
	if err := fsWatcher.Add(filepath.Dir(p.path)); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("failed to watch %s: %w", p.path, err)
	}

	p.watcher = fsWatcher
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	go p.watchLoop(fsWatcher, p.stopCh, p.doneCh)

	p.logger.Info("Analytics configuration hot reloading enabled", zap.String("path", p.path))
	return nil
}

// Close stops watching
func (p *AnalyticsProvider) Close() error {
	p.mu.Lock()
	if p.watcher == nil {
		p.mu.Unlock()
		return nil
	}
	close(p.stopCh)
	done := p.doneCh
	p.watcher = nil
	p.mu.Unlock()

	<-done
	return nil
}

func (p *AnalyticsProvider) watchLoop(watcher *fsnotify.Watcher, stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	defer watcher.Close()

	target := filepath.Clean(p.path)
	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, p.reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("File watcher error", zap.Error(err))

		case <-stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

func (p *AnalyticsProvider) reload() {
	cfg, err := p.load()
	if err != nil {
		p.logger.Error("Ignoring invalid analytics configuration", zap.String("path", p.path), zap.Error(err))
		return
	}

	old := p.current.Swap(cfg)
	if old != nil && *old == *cfg {
		p.logger.Debug("Analytics configuration unchanged after reload")
		return
	}

	p.mu.Lock()
	callbacks := append(([]func(*domainConfig.AnalyticsConfig))(nil), p.callbacks...)
	p.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}

	p.logger.Info("Analytics configuration reloaded",
		zap.Float64("similarity_threshold", cfg.SimilarityThreshold),
		zap.Int("min_occurrences", cfg.MinOccurrences),
		zap.Bool("require_same_template", cfg.RequireSameTemplate),
	)
}

// load reads the file over a copy of base, so keys missing from the file keep
// their environment values
func (p *AnalyticsProvider) load() (*domainConfig.AnalyticsConfig, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analytics config: %w", err)
	}

	cfg := p.base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse analytics config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
