package exports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/rosterkeeper/internal/common"
	sc "github.com/dmitrijs2005/rosterkeeper/internal/server/config"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// Archiver copies export snapshots to an S3-compatible bucket.
type Archiver struct {
	config *sc.Config
}

// NewArchiver returns nil when no bucket is configured; a nil Archiver
// disables archiving.
func NewArchiver(cfg *sc.Config) *Archiver {
	if cfg.S3Bucket == "" {
		return nil
	}
	return &Archiver{config: cfg}
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("exports/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (a *Archiver) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(a.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.config.S3RootUser,     // MINIO_ROOT_USER
			a.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Store uploads one snapshot and returns the object key it was stored under.
func (a *Archiver) Store(ctx context.Context, data []byte) (string, error) {
	client, err := a.getClient()
	if err != nil {
		return "", err
	}

	bucket := a.config.S3Bucket
	key := randomStorageKey()
	contentType := common.ExportContentType

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return key, nil
}
