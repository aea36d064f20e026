package log

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileConfig is the content of a log config file.
//
//	level: debug
//	filter: "info,warn,error:* debug:world"
type FileConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Filter string `yaml:"filter"`
}

func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log config: %w", err)
	}
	ret := &FileConfig{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("parse log config %s: %w", path, err)
	}
	return ret, nil
}

// WatchConfig reloads the level of l whenever the config file at path is
// written. The watcher stops when ctx is done.
func (l *Logger) WatchConfig(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// editors replace files, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}
	target := filepath.Clean(path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				l.reloadLevel(path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.Error("log config watcher error", ErrorField(err))
			}
		}
	}()
	return nil
}

func (l *Logger) reloadLevel(path string) {
	cfg, err := LoadConfig(path)
	if err != nil {
		l.Warn("could not reload log config", ErrorField(err))
		return
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		l.Warn("invalid log level in config",
			String("level", cfg.Level), ErrorField(err))
		return
	}
	if level != l.Level() {
		l.Info("changing log level", String("level", level.String()))
		l.SetLevel(level)
	}
}
