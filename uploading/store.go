package uploading

import (
	"io"

	"github.com/t2bot/url-media-nodes/common/rcontext"
)

// Credentials are the short-lived STS credentials issued per task.
type Credentials struct {
	AccessKeyId     string
	AccessKeySecret string
	SecurityToken   string
}

type ObjectStore interface {
	PutObject(ctx rcontext.RequestContext, key string, r io.Reader, size int64, contentType string) error
}

type StoreFactory func(creds Credentials, bucket string, endpoint string, secure bool) (ObjectStore, error)
