package pool

import (
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common/config"
	"github.com/t2bot/url-media-nodes/metrics"
)

var DownloadQueue *Queue
var initLock = &sync.Mutex{}

func Init() {
	initLock.Lock()
	defer initLock.Unlock()
	if DownloadQueue != nil {
		return
	}

	var err error
	if DownloadQueue, err = NewQueue(config.Get().Downloads.NumWorkers, "downloads"); err != nil {
		sentry.CaptureException(err)
		logrus.Error("Error setting up downloads queue")
		logrus.Fatal(err)
	}

	metrics.OnBeforeMetricsRequested(func() {
		metrics.QueueRunning.With(prometheus.Labels{"queue": "downloads"}).Set(float64(DownloadQueue.Running()))
	})
}

func AdjustSize() {
	if DownloadQueue != nil {
		DownloadQueue.Tune(config.Get().Downloads.NumWorkers)
	}
}

func Drain() {
	initLock.Lock()
	defer initLock.Unlock()
	if DownloadQueue != nil {
		DownloadQueue.Release()
		DownloadQueue = nil
	}
}
