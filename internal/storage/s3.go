// internal/storage/s3.go
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	appconfig "campus-swamp/internal/config"
	"campus-swamp/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// PresignExpiry is how long an upload URL stays valid.
const PresignExpiry = 15 * time.Minute

// S3Client wraps the AWS SDK for the media bucket. An optional custom
// endpoint switches to path-style addressing for S3-compatible stores.
type S3Client struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	region    string
	endpoint  string
	maxUpload int64
}

// PresignedUpload is what a client needs to PUT a file directly to the
// bucket and reference it afterwards.
type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int64  `json:"expiresIn"`
}

// NewS3Client builds a client with static credentials from configuration.
func NewS3Client(ctx context.Context, cfg appconfig.StorageConfig) (*S3Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		endpoint:  cfg.Endpoint,
		maxUpload: cfg.MaxUpload,
	}, nil
}

// GeneratePresignedURL returns a time-limited PUT URL for a new object
// under the user's prefix. The declared size is checked against the upload
// limit before any URL is issued.
func (c *S3Client) GeneratePresignedURL(ctx context.Context, userID uuid.UUID, filename, contentType string, size int64) (*PresignedUpload, error) {
	if size > c.maxUpload {
		return nil, utils.NewAppError(utils.ErrFileTooLarge,
			fmt.Sprintf("File exceeds the %d byte upload limit", c.maxUpload), nil)
	}
	if filename == "" {
		return nil, utils.NewAppError(utils.ErrInvalidInput, "Filename is required", nil)
	}

	key := ObjectKey(userID, filename)

	request, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %v", err)
	}

	return &PresignedUpload{
		UploadURL: request.URL,
		Key:       key,
		PublicURL: c.PublicURL(key),
		ExpiresIn: int64(PresignExpiry.Seconds()),
	}, nil
}

// Upload writes an object through the server. Used for server-originated
// content; client uploads go through presigned URLs instead.
func (c *S3Client) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %v", err)
	}
	return c.PublicURL(key), nil
}

// PublicURL returns the canonical GET URL for an object key.
func (c *S3Client) PublicURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

// ApplyCORS replaces the bucket's CORS rules. Used by the setcors tool so
// browsers can PUT to presigned URLs.
func (c *S3Client) ApplyCORS(ctx context.Context, origins, methods, headers []string, maxAge int32) error {
	_, err := c.client.PutBucketCors(ctx, &s3.PutBucketCorsInput{
		Bucket: aws.String(c.bucket),
		CORSConfiguration: &types.CORSConfiguration{
			CORSRules: []types.CORSRule{
				{
					AllowedOrigins: origins,
					AllowedMethods: methods,
					AllowedHeaders: headers,
					ExposeHeaders:  []string{"ETag"},
					MaxAgeSeconds:  aws.Int32(maxAge),
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to apply bucket CORS: %v", err)
	}
	return nil
}

// ObjectKey builds a collision-free key under the user's upload prefix.
// The original filename is kept, sanitized, for readability in the bucket.
func ObjectKey(userID uuid.UUID, filename string) string {
	return fmt.Sprintf("uploads/%s/%s_%s", userID, uuid.New(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
