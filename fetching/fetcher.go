package fetching

import (
	"net/http"
	"time"

	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/config"
	"github.com/t2bot/url-media-nodes/common/rcontext"
)

const DefaultChunkSize = 8192

// Options control a single fetch.
type Options struct {
	Kind       common.MediaKind
	Timeout    time.Duration
	MaxRetries int
	Accept     string
}

// FileOptions describe where a disk-mode fetch writes. When Persist is false the payload goes to a
// temporary file and Directory/BaseName are ignored.
type FileOptions struct {
	Options
	Persist   bool
	Directory string
	BaseName  string
	Extension string // including the leading dot
}

// Scheduler runs fetch jobs. *pool.Queue satisfies it.
type Scheduler interface {
	Schedule(task func()) error
}

type Fetcher struct {
	userAgent    string
	retryBackoff time.Duration
	chunkSize    int
	maxSizeBytes int64
	tempDir      string
	transport    http.RoundTripper
	queue        Scheduler
}

type Settings struct {
	UserAgent          string
	RetryBackoff       time.Duration
	ChunkSize          int
	MaxSizeBytes       int64 // 0 for unlimited
	TempDirectory      string
	UnsafeCertificates bool
}

func SettingsFromConfig(c config.NodesConfig) Settings {
	return Settings{
		UserAgent:          c.Downloads.UserAgent,
		RetryBackoff:       time.Duration(c.Downloads.RetryBackoffMs) * time.Millisecond,
		ChunkSize:          c.Downloads.ChunkSizeBytes,
		MaxSizeBytes:       c.Downloads.MaxSizeBytes,
		TempDirectory:      c.Paths.TempDirectory,
		UnsafeCertificates: c.Downloads.UnsafeCertificates,
	}
}

// New creates a Fetcher. A nil queue runs each job on its own goroutine.
func New(settings Settings, queue Scheduler) *Fetcher {
	if settings.UserAgent == "" {
		settings.UserAgent = config.DefaultUserAgent
	}
	if settings.ChunkSize <= 0 {
		settings.ChunkSize = DefaultChunkSize
	}
	if settings.RetryBackoff < 0 {
		settings.RetryBackoff = 0
	}
	return &Fetcher{
		userAgent:    settings.UserAgent,
		retryBackoff: settings.RetryBackoff,
		chunkSize:    settings.ChunkSize,
		maxSizeBytes: settings.MaxSizeBytes,
		tempDir:      settings.TempDirectory,
		transport:    newTransport(settings.UnsafeCertificates),
		queue:        queue,
	}
}

// Fetch downloads url into memory, blocking until the job completes.
func (f *Fetcher) Fetch(ctx rcontext.RequestContext, url string, opts Options) (*FetchResult, error) {
	return f.Start(ctx, Job{Url: url, Options: opts}).Wait()
}

// FetchToFile streams url to disk in fixed-size chunks, blocking until the job completes.
func (f *Fetcher) FetchToFile(ctx rcontext.RequestContext, url string, opts FileOptions) (*FetchResult, error) {
	return f.Start(ctx, Job{Url: url, Options: opts.Options, File: &opts}).Wait()
}
