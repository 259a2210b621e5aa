package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

var _ AssetStorage = (*minioAssetStorage)(nil) // ensure minioAssetStorage implements AssetStorage.

type minioAssetStorage struct {
	logger  *zap.Logger
	client  *minio.Client
	clock   Clocker
	ids     UIDHandler
	bucket  string
	baseURL string
}

// GetMinioClient connects to the object storage service and makes sure
// the configured bucket exists. Like the redis client setup, a service
// which cannot be reached at startup keeps the application from starting.
func GetMinioClient(config *Config) (*minio.Client, error) {
	client, err := minio.New(config.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Minio.AccessKey, config.Minio.SecretKey, ""),
		Secure: config.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build the object storage client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, config.Minio.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check the assets bucket: %v", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create the assets bucket: %v", err)
		}
	}
	return client, nil
}

// NewMinioAssetStorage provides an instance of minio-based asset storage.
func NewMinioAssetStorage(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, client *minio.Client) AssetStorage {
	return &minioAssetStorage{
		logger:  logger,
		client:  client,
		clock:   clock,
		ids:     ids,
		bucket:  config.Minio.Bucket,
		baseURL: strings.TrimSuffix(config.Minio.PublicBaseURL, "/"),
	}
}

// Store uploads one in-memory buffer under the given folder and returns
// the public URL plus the object key needed for a later removal. The key
// embeds the upload time and a random suffix so concurrent uploads never
// collide. Raw payloads are sent as plain octet streams so the remote
// service never tries any content transformation on them.
func (ms *minioAssetStorage) Store(ctx context.Context, data []byte, folder string, kind AssetKind) (Asset, error) {
	var asset Asset
	key := ms.ObjectKey(folder, kind)
	contentType := AssetContentType(data, kind)

	_, err := ms.client.PutObject(ctx, ms.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return asset, fmt.Errorf("failed to upload %s asset: %w", kind, err)
	}

	asset.ID = key
	asset.URL = ms.baseURL + "/" + ms.bucket + "/" + key
	return asset, nil
}

// Remove deletes one remote asset by its key. Callers treat a failure
// here as non fatal: they log it and finish their own operation.
func (ms *minioAssetStorage) Remove(ctx context.Context, id string, kind AssetKind) error {
	if err := ms.client.RemoveObject(ctx, ms.bucket, id, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s asset: %w", kind, err)
	}
	return nil
}

// ObjectKey builds the remote key of a new asset.
func (ms *minioAssetStorage) ObjectKey(folder string, kind AssetKind) string {
	return fmt.Sprintf("%s/%s-%d-%s", strings.Trim(folder, "/"), kind, ms.clock.Now().UnixMilli(), ms.ids.Suffix())
}

// AssetContentType derives the mime type to attach on an upload. Covers
// get their real image type sniffed from the payload, everything else is
// an opaque octet stream.
func AssetContentType(data []byte, kind AssetKind) string {
	if kind == AssetKindImage {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}
