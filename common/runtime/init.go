package runtime

import (
	"os"
	"sync/atomic"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common/config"
	"github.com/t2bot/url-media-nodes/common/version"
	"github.com/t2bot/url-media-nodes/fetching"
	"github.com/t2bot/url-media-nodes/nodes"
	"github.com/t2bot/url-media-nodes/pool"
	"github.com/t2bot/url-media-nodes/uploading"
)

func RunStartupSequence() {
	version.Print(true)
	PrepareDirectories()

	logrus.Info("Starting download queue...")
	pool.Init()
}

func PrepareDirectories() {
	paths := config.Get().Paths
	logrus.Info("Preparing directories...")
	for _, dir := range []string{paths.InputDirectory, paths.OutputDirectory, paths.TempDirectory} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			sentry.CaptureException(err)
			logrus.Fatal(err)
		}
		logrus.Info("\t", dir)
	}
}

var registry atomic.Pointer[nodes.Registry]

// Registry returns the registry built by the last ReloadRegistry call.
func Registry() *nodes.Registry {
	return registry.Load()
}

// ReloadRegistry rebuilds the registry from the current config and makes it the one Registry returns.
func ReloadRegistry() *nodes.Registry {
	r := BuildRegistry()
	registry.Store(r)
	return r
}

// BuildRegistry wires the nodes to the shared download queue and the configured upload target.
func BuildRegistry() *nodes.Registry {
	c := config.Get()
	var queue fetching.Scheduler
	if pool.DownloadQueue != nil {
		queue = pool.DownloadQueue
	}
	fetcher := fetching.New(fetching.SettingsFromConfig(*c), queue)
	dispatcher := uploading.NewDispatcherFromConfig(*c, nil)

	registry, err := nodes.NewDefaultRegistry(nodes.Deps{Fetcher: fetcher, Dispatcher: dispatcher})
	if err != nil {
		sentry.CaptureException(err)
		logrus.Fatal(err)
	}
	for _, s := range registry.List() {
		logrus.Debugf("Registered node %s (%s)", s.Id, s.DisplayName)
	}
	return registry
}
