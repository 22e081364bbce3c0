package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	client := &fakeS3{}
	w, err := NewS3WriterFactory(client, 0).NewWriter("exports", "revenue.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	assert.Nil(t, client.body)

	require.NoError(t, w.Close())
	assert.Equal(t, "exports", client.bucket)
	assert.Equal(t, "revenue.parquet", client.key)
	assert.Equal(t, "PAR1data", string(client.body))
}

func TestS3WriterPropagatesError(t *testing.T) {
	w, err := NewS3WriterFactory(&fakeS3{err: errors.New("denied")}, 0).NewWriter("b", "k")
	require.NoError(t, err)
	assert.ErrorContains(t, w.Close(), "denied")
}

func TestS3WriterRequiresLocation(t *testing.T) {
	_, err := NewS3WriterFactory(&fakeS3{}, 0).NewWriter("", "k")
	assert.Error(t, err)
}

func TestParseLocation(t *testing.T) {
	bucket, key, ok := ParseLocation("s3://exports/2024/revenue.parquet")
	require.True(t, ok)
	assert.Equal(t, "exports", bucket)
	assert.Equal(t, "2024/revenue.parquet", key)

	for _, dest := range []string{"s3://exports", "s3:///key", "exports/revenue.parquet"} {
		_, _, ok := ParseLocation(dest)
		assert.False(t, ok, dest)
	}
	assert.True(t, IsRemote("s3://b/k"))
	assert.False(t, IsRemote("./revenue.parquet"))
}

func TestContentTypeFromKey(t *testing.T) {
	assert.Equal(t, "application/vnd.apache.parquet", contentTypeFor("a/revenue.PARQUET"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob"))
}
