package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/minio/minio-go/v7"
)

// Archive stores JSON documents under keys in one bucket.
type Archive struct {
	client Client
	bucket string
	region string

	once    sync.Once
	initErr error
}

// NewArchive creates an archive for bucket. The bucket is created on first use.
func NewArchive(client Client, bucket, region string) *Archive {
	return &Archive{client: client, bucket: bucket, region: region}
}

// Bucket returns the bucket name.
func (a *Archive) Bucket() string {
	return a.bucket
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.once.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.initErr = fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
			return
		}
		if exists {
			return
		}
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
			a.initErr = fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	})
	return a.initErr
}

// Put writes a JSON document.
func (a *Archive) Put(ctx context.Context, key string, payload []byte) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Get reads a document.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// List returns the keys under prefix in reverse lexical order, so keys that
// start with a timestamp come newest first.
func (a *Archive) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}
