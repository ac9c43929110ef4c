package main

import (
	"log/slog"
	"path/filepath"

	"cogentcore.org/core/base/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/jasonwebb/diffgrowth"
)

// watch reloads the config file at path whenever it is written and sends
// its settings to out, replacing settings that were not consumed yet.
// The returned function stops watching.
func watch(path string, out chan diffgrowth.Settings) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// editors often replace files instead of writing them, watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}
	name := filepath.Clean(path)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != name || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				conf, err := ParseConfig(path)
				if errors.Log(err) != nil {
					continue
				}
				if errors.Log(conf.Settings.Validate()) != nil {
					continue
				}
				replace(out, conf.Settings)
				slog.Info("config changed", "file", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				errors.Log(err)
			}
		}
	}()

	return func() {
		close(done)
		errors.Log(watcher.Close())
	}, nil
}

// replace sends s to the buffered channel out, dropping a pending value.
func replace(out chan diffgrowth.Settings, s diffgrowth.Settings) {
	for {
		select {
		case out <- s:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
