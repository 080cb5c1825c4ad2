package fetching

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/t2bot/url-media-nodes/common"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/metrics"
	"github.com/t2bot/url-media-nodes/util"
	"github.com/t2bot/url-media-nodes/util/readers"
)

func (f *Fetcher) run(ctx rcontext.RequestContext, job Job) (*FetchResult, error) {
	url, err := util.ValidateHttpUrl(job.Url)
	if err != nil {
		return nil, err
	}
	if job.File != nil && job.File.Persist {
		if err = util.ValidateFilename(job.File.BaseName); err != nil {
			return nil, err
		}
	}

	opts := job.Options
	kind := string(opts.Kind)
	if kind == "" {
		kind = "resource"
	}
	ctx = ctx.LogWithFields(logrus.Fields{"url": url})

	retries := opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(f.retryBackoff), uint64(retries)), ctx.Context)

	attempt := 0
	var result *FetchResult
	operation := func() error {
		attempt++
		actx := ctx.LogWithFields(logrus.Fields{"attempt": strconv.Itoa(attempt)})
		start := time.Now()

		var r *FetchResult
		var err error
		if job.File != nil {
			r, err = f.downloadToFile(actx, url, *job.File)
		} else {
			r, err = f.downloadToMemory(actx, url, opts)
		}
		metrics.FetchDuration.With(prometheus.Labels{"kind": kind}).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.FetchAttempts.With(prometheus.Labels{"kind": kind, "result": "failed"}).Inc()
			if isLocalFailure(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		metrics.FetchAttempts.With(prometheus.Labels{"kind": kind, "result": "ok"}).Inc()
		metrics.FetchBytes.With(prometheus.Labels{"kind": kind}).Add(float64(r.SizeBytes))
		result = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		ctx.Log.Warnf("Attempt %d of %d failed, retrying in %s: %s", attempt, retries+1, wait, err.Error())
	}

	if err = backoff.RetryNotify(operation, policy, notify); err != nil {
		if isLocalFailure(err) {
			return nil, err
		}
		ctx.Log.Errorf("Giving up after %d attempt(s): %s", attempt, err.Error())
		return nil, &common.TransportError{Url: url, Timeout: opts.Timeout, Err: err}
	}

	ctx.Log.Debugf("Fetched %s in %d attempt(s)", humanize.Bytes(uint64(result.SizeBytes)), attempt)
	return result, nil
}

// isLocalFailure covers errors that another request would not fix.
func isLocalFailure(err error) bool {
	var se *common.StorageError
	return errors.As(err, &se) || errors.Is(err, common.ErrMediaTooLarge) || common.IsInvalidInput(err)
}

func (f *Fetcher) limitBody(body io.ReadCloser) io.ReadCloser {
	if f.maxSizeBytes > 0 {
		return readers.LimitReaderWithOverrunError(body, f.maxSizeBytes)
	}
	return body
}

func (f *Fetcher) downloadToMemory(ctx rcontext.RequestContext, url string, opts Options) (*FetchResult, error) {
	resp, err := f.doHttpGet(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	body := f.limitBody(resp.Body)
	defer body.Close()

	buf := &bytes.Buffer{}
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	if _, err = io.Copy(buf, body); err != nil {
		return nil, err
	}

	return &FetchResult{
		Url:             url,
		Data:            buf.Bytes(),
		ContentTypeHint: resp.Header.Get("Content-Type"),
		Filename:        responseFilename(resp, url),
		SizeBytes:       int64(buf.Len()),
	}, nil
}

func (f *Fetcher) createTarget(opts FileOptions) (*os.File, error) {
	if !opts.Persist {
		file, err := os.CreateTemp(f.tempDir, "url-nodes-*"+opts.Extension)
		if err != nil {
			return nil, &common.StorageError{Filename: opts.BaseName + opts.Extension, Err: err}
		}
		return file, nil
	}

	if err := os.MkdirAll(opts.Directory, 0755); err != nil {
		return nil, &common.StorageError{Filename: opts.BaseName + opts.Extension, Err: err}
	}
	target, err := util.UniquePath(opts.Directory, opts.BaseName, opts.Extension)
	if err != nil {
		return nil, &common.StorageError{Filename: opts.BaseName + opts.Extension, Err: err}
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, &common.StorageError{Filename: target, Err: err}
	}
	return file, nil
}

func (f *Fetcher) downloadToFile(ctx rcontext.RequestContext, url string, opts FileOptions) (*FetchResult, error) {
	resp, err := f.doHttpGet(ctx, url, opts.Options)
	if err != nil {
		return nil, err
	}
	body := f.limitBody(resp.Body)
	defer body.Close()

	file, err := f.createTarget(opts)
	if err != nil {
		return nil, err
	}
	target := file.Name()
	ctx.Log.Debug("Writing to ", target)

	written, err := f.copyChunks(ctx, file, body)
	if cerr := file.Close(); cerr != nil && err == nil {
		err = &common.StorageError{Filename: target, Err: cerr}
	}
	if err != nil {
		util.TryRemove(target)
		return nil, err
	}

	return &FetchResult{
		Url:             url,
		FilePath:        target,
		ContentTypeHint: resp.Header.Get("Content-Type"),
		Filename:        responseFilename(resp, url),
		SizeBytes:       written,
		persisted:       opts.Persist,
	}, nil
}

func (f *Fetcher) copyChunks(ctx rcontext.RequestContext, file *os.File, body io.Reader) (int64, error) {
	chunk := make([]byte, f.chunkSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, rerr := body.Read(chunk)
		if n > 0 {
			if _, werr := file.Write(chunk[:n]); werr != nil {
				return written, &common.StorageError{Filename: file.Name(), Err: werr}
			}
			written += int64(n)
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
