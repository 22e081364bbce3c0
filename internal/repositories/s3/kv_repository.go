package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/chrisdamba/menusight/internal/repositories"
)

// API is the subset of *s3.Client used by the repository.
type API interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *awss3.DeleteObjectsInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectsOutput, error)
}

// KVRepository stores each key as <prefix>/<namespace>/<key>.json. S3 has no
// multi-object transaction, so PutAll writes objects one by one.
type KVRepository struct {
	client API
	bucket string
	prefix string
}

func NewKVRepository(client API, bucket, prefix, namespace string) *KVRepository {
	return &KVRepository{
		client: client,
		bucket: bucket,
		prefix: path.Join(prefix, namespace),
	}
}

func (r *KVRepository) objectKey(key string) string {
	return path.Join(r.prefix, key+".json")
}

func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.objectKey(key)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, repositories.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (r *KVRepository) PutAll(ctx context.Context, entries map[string][]byte) error {
	for key, value := range entries {
		_, err := r.client.PutObject(ctx, &awss3.PutObjectInput{
			Bucket:      aws.String(r.bucket),
			Key:         aws.String(r.objectKey(key)),
			Body:        bytes.NewReader(value),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
	}
	return nil
}

func (r *KVRepository) DeleteAll(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(r.objectKey(key))})
	}
	_, err := r.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
		Bucket: aws.String(r.bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	return err
}

func (r *KVRepository) Close() error { return nil }
