package s3

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"supplierx/internal/config"
	"supplierx/internal/port"
)

const defaultPresignExpiry = time.Hour

type exportArchive struct {
	bucket    string
	expiry    time.Duration
	uploader  *manager.Uploader
	presigner *s3.PresignClient
	now       func() time.Time
}

// NewExportArchive creates an S3-backed port.ExportArchive. Objects are written to
// cfg.Bucket and shared through presigned GET URLs valid for cfg.PresignExpiry seconds.
// A custom endpoint switches to path-style addressing for MinIO and LocalStack.
func NewExportArchive(cfg *config.S3Config) (port.ExportArchive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 archive: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expiry := time.Duration(cfg.PresignExpiry) * time.Second
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	return &exportArchive{
		bucket:    cfg.Bucket,
		expiry:    expiry,
		uploader:  manager.NewUploader(client),
		presigner: s3.NewPresignClient(client),
		now:       time.Now,
	}, nil
}

// Put uploads the export with an attachment disposition, then presigns a download link.
func (a *exportArchive) Put(ctx context.Context, obj port.ExportObject) (*port.ArchivedExport, error) {
	_, err := a.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(a.bucket),
		Key:                aws.String(obj.Key),
		Body:               bytes.NewReader(obj.Data),
		ContentLength:      aws.Int64(int64(len(obj.Data))),
		ContentType:        aws.String(obj.ContentType),
		ContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="%s"`, obj.Filename)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s: %w", obj.Key, err)
	}

	signed, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(obj.Key),
	}, s3.WithPresignExpires(a.expiry))
	if err != nil {
		return nil, fmt.Errorf("s3 presign %s: %w", obj.Key, err)
	}

	return &port.ArchivedExport{
		Key:       obj.Key,
		URL:       signed.URL,
		ExpiresAt: a.now().Add(a.expiry),
	}, nil
}
