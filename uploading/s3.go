package uploading

import (
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/t2bot/url-media-nodes/common/rcontext"
	"github.com/t2bot/url-media-nodes/metrics"
)

type s3 struct {
	client *minio.Client
	bucket string
}

// NewS3Store connects to an S3-compatible endpoint. An explicit scheme on the endpoint overrides secure.
func NewS3Store(creds Credentials, bucket string, endpoint string, secure bool) (ObjectStore, error) {
	if strings.HasPrefix(endpoint, "https://") {
		secure = true
	} else if strings.HasPrefix(endpoint, "http://") {
		secure = false
	}
	endpoint = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://"), "/")

	client, err := minio.New(endpoint, &minio.Options{
		Secure: secure,
		Creds:  credentials.NewStaticV4(creds.AccessKeyId, creds.AccessKeySecret, creds.SecurityToken),
	})
	if err != nil {
		return nil, err
	}
	return &s3{client: client, bucket: bucket}, nil
}

func (s *s3) PutObject(ctx rcontext.RequestContext, key string, r io.Reader, size int64, contentType string) error {
	metrics.S3Operations.With(prometheus.Labels{"operation": "PutObject"}).Inc()
	_, err := s.client.PutObject(ctx.Context, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	})
	return err
}
