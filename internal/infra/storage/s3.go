package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used here. Tests substitute a fake.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client uploads course PDFs and thumbnails to an S3-compatible bucket.
type Client struct {
	api     S3API
	bucket  string
	baseURL string
}

// Default is the process-wide client, set by Init. Handlers answer 500 when
// it is nil (storage not configured).
var Default *Client

// Init builds Default from the environment. Missing configuration is not
// fatal: content upload endpoints are simply unavailable.
func Init(ctx context.Context) {
	bucket := os.Getenv("STORAGE_BUCKET")
	region := os.Getenv("STORAGE_REGION")
	if bucket == "" || region == "" {
		log.Println("Storage not configured (STORAGE_BUCKET/STORAGE_REGION missing); uploads disabled.")
		return
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if key := os.Getenv("STORAGE_ACCESS_KEY_ID"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, os.Getenv("STORAGE_SECRET_KEY"), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Println("Failed to load storage config:", err)
		return
	}

	endpoint := os.Getenv("STORAGE_ENDPOINT")
	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := os.Getenv("STORAGE_PUBLIC_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	Default = New(api, bucket, baseURL)
}

func New(api S3API, bucket, baseURL string) *Client {
	return &Client{api: api, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("storage upload %s: %w", key, err)
	}
	return nil
}

func (c *Client) Remove(ctx context.Context, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage remove %s: %w", key, err)
	}
	return nil
}

func (c *Client) PublicURL(key string) string {
	return c.baseURL + "/" + strings.TrimLeft(key, "/")
}
