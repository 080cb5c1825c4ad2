package config

import (
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

type ReloadFunc func(previous *NodesConfig, current *NodesConfig)

var reloadListeners = make([]ReloadFunc, 0)

// OnReload registers a listener invoked after a config file change has been applied.
func OnReload(fn ReloadFunc) {
	reloadListeners = append(reloadListeners, fn)
}

func Watch() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = watcher.Add(Path)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	go func() {
		debounced := debounce.New(1 * time.Second)
		for {
			select {
			case _, ok := <-watcher.Events:
				if !ok {
					return
				}
				debounced(onFileChanged)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logrus.Error("error in config watcher:", err)
			}
		}
	}()

	return watcher, nil
}

func onFileChanged() {
	logrus.Info("Config file change detected - reloading")
	configNow := Get()
	configNew, err := reloadConfig()
	if err != nil {
		logrus.Error("Error reloading configuration - ignoring")
		logrus.Error(err)
		return
	}

	logrus.Info("Applying reloaded config live")
	Set(configNew)

	if configNew.General.LogDirectory != configNow.General.LogDirectory {
		logrus.Warn("Log configuration changed - restart to apply changes")
	}
	if configNew.Downloads.NumWorkers != configNow.Downloads.NumWorkers {
		logrus.Warn("Download worker count changed - resizing pool")
	}

	for _, fn := range reloadListeners {
		fn(configNow, configNew)
	}
}
