package main

import (
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common/config"
	"github.com/t2bot/url-media-nodes/common/runtime"
	"github.com/t2bot/url-media-nodes/metrics"
	"github.com/t2bot/url-media-nodes/pool"
)

func setupReloads() {
	config.OnReload(onConfigReload)
}

func onConfigReload(previous *config.NodesConfig, current *config.NodesConfig) {
	if previous.Downloads.NumWorkers != current.Downloads.NumWorkers {
		pool.AdjustSize()
	}
	if previous.Metrics != current.Metrics {
		logrus.Info("Reloading metrics listener")
		metrics.Reload()
	}

	// Fetch settings and upload defaults are captured when the nodes are built
	logrus.Info("Rebuilding node registry")
	runtime.ReloadRegistry()
}
