// Package blobstore is the content-addressed object client (L1): put, get,
// delete, exists, and presigned-GET over an S3-compatible backend. Grounded
// on the original StorageClient (bucket-create-on-first-use, same op set).
package blobstore

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nexusrfp/engine/internal/errkind"
)

// Client is the blob-store port the pipeline depends on. One process-wide
// instance is constructed at startup and injected into the orchestrator
// (§9 design note: no global singleton).
type Client interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// MinioClient implements Client over an S3-compatible endpoint.
type MinioClient struct {
	mc     *minio.Client
	bucket string
}

// New constructs a MinioClient and ensures the bucket exists.
func New(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioClient, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errkind.Wrap(errkind.Fatal, "blobstore", "construct client", err)
	}
	c := &MinioClient{mc: mc, bucket: bucket}
	if err := c.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *MinioClient) ensureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return errkind.Wrap(errkind.Transient, "blobstore", "check bucket", err)
	}
	if exists {
		return nil
	}
	if err := c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return errkind.Wrap(errkind.Fatal, "blobstore", "create bucket", err)
	}
	return nil
}

func (c *MinioClient) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.mc.PutObject(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errkind.Wrap(errkind.Transient, "blobstore", "put "+key, err)
	}
	return nil
}

func (c *MinioClient) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errkind.Wrap(errkind.Transient, "blobstore", "get "+key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errkind.Wrap(errkind.NotFound, "blobstore", "read "+key, err)
	}
	return data, nil
}

func (c *MinioClient) Delete(ctx context.Context, key string) error {
	if err := c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errkind.Wrap(errkind.Transient, "blobstore", "delete "+key, err)
	}
	return nil
}

func (c *MinioClient) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.mc.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return false, nil
		}
		return false, errkind.Wrap(errkind.Transient, "blobstore", "stat "+key, err)
	}
	return true, nil
}

func (c *MinioClient) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, ttl, nil)
	if err != nil {
		return "", errkind.Wrap(errkind.Transient, "blobstore", "presign "+key, err)
	}
	return u.String(), nil
}
