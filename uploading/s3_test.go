package uploading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3StoreEndpoints(t *testing.T) {
	creds := Credentials{AccessKeyId: "id", AccessKeySecret: "secret", SecurityToken: "token"}

	store, err := NewS3Store(creds, "bucket", "oss-cn-hangzhou.aliyuncs.com", false)
	require.NoError(t, err)
	assert.Equal(t, "http", store.(*s3).client.EndpointURL().Scheme)

	store, err = NewS3Store(creds, "bucket", "https://oss-cn-hangzhou.aliyuncs.com/", false)
	require.NoError(t, err)
	assert.Equal(t, "https", store.(*s3).client.EndpointURL().Scheme)
	assert.Equal(t, "oss-cn-hangzhou.aliyuncs.com", store.(*s3).client.EndpointURL().Host)

	_, err = NewS3Store(creds, "bucket", "not a host/with/path", true)
	assert.Error(t, err)
}
