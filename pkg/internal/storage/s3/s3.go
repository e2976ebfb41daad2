// Package s3 handles object storage for catalog snapshots.
package s3

import (
	"context"
	"fmt"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/mediavault/pkg/configs"
	mlog "github.com/yeisme/mediavault/pkg/log"
)

// Client wraps the MinIO client.
type Client struct {
	*minio.Client
}

// New initializes the MinIO client and creates the snapshot bucket when it
// does not exist yet.
func New(ctx context.Context) (*Client, error) {
	cfg := configs.GetConfig().S3
	endpoint := cfg.Endpoint
	// Accept full-schema endpoints (http:// or https://).
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("mediavault", configs.AppVersion)

	if cfg.BucketName != "" {
		exists, err := cli.BucketExists(ctx, cfg.BucketName)
		if err != nil {
			return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
		}

		if !exists {
			if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
				return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
			}

			mlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
		}
	}

	mlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{Client: cli}, nil
}

// HealthCheck verifies connectivity by listing buckets.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close is a no-op for interface compatibility.
func (c *Client) Close() error {
	return nil
}

func (c *Client) GetConfig() configs.S3Config {
	return configs.GetConfig().S3
}
