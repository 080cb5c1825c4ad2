package fetching

import (
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/util"
	"github.com/t2bot/url-media-nodes/util/cleanup"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received status code %d (%s)", e.StatusCode, e.Status)
}

func newTransport(unsafeCertificates bool) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		// Binary payloads must arrive byte for byte
		DisableCompression: true,
	}
	if unsafeCertificates {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return tr
}

func (f *Fetcher) doHttpGet(ctx rcontext.RequestContext, url string, opts Options) (*http.Response, error) {
	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: f.transport,
	}

	req, err := http.NewRequestWithContext(ctx.Context, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Range", "bytes=0-")
	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ctx.Log.Warnf("Received status code %d", resp.StatusCode)
		cleanup.DumpAndCloseStream(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	return resp, nil
}

func responseFilename(resp *http.Response, url string) string {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return util.UrlFilename(url)
}
