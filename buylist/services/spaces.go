// Package services holds the outward-facing side of the builder: publishing
// the generated site to DigitalOcean Spaces, relaying cart hand-offs to the
// shop's Discord webhook, and capturing page snapshots.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/climaxcard/buylist/buylist/logger"
)

// SpacesPublisher uploads the generated site to a DigitalOcean Spaces
// bucket. Spaces speaks the S3 API, so the AWS client with a custom
// endpoint is all it takes.
type SpacesPublisher struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewSpacesPublisher(key, secret, region, bucket, prefix string) (*SpacesPublisher, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load Spaces config: %w", err)
	}

	return &SpacesPublisher{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// PublishDir walks dir and uploads every regular file, keyed by its path
// relative to dir under the configured prefix. Returns the number of files
// uploaded.
func (p *SpacesPublisher) PublishDir(ctx context.Context, dir string) (int, error) {
	start := time.Now()
	uploaded := 0

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if p.prefix != "" {
			key = p.prefix + "/" + key
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &p.bucket,
			Key:         &key,
			Body:        f,
			ContentType: aws.String(contentTypeFor(path)),
			ACL:         "public-read",
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		uploaded++
		return nil
	})

	logger.LogSystem("site published",
		slog.String("bucket", p.bucket),
		slog.Int("files", uploaded),
		slog.Duration("took", time.Since(start)),
	)
	if err != nil {
		return uploaded, err
	}
	return uploaded, nil
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
