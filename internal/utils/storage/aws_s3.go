package storage

import (
	"FoodShare/internal/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

var (
	AllowImage = []string{"image/png", "image/jpeg", "image/webp"}

	ErrStorageDisabled   = errors.New("object storage is not configured")
	ErrContentNotAllowed = errors.New("content type not allowed")
)

type (
	AwsS3 interface {
		Enabled() bool
		UploadBytes(ctx context.Context, filename string, data []byte, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	objectClient interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	awsS3 struct {
		client objectClient
		bucket string
		region string
	}
)

// NewAwsS3 builds the client from config. Without a bucket the returned
// storage reports Enabled() == false and every upload fails.
func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")
	if bucket == "" || region == "" {
		return &awsS3{}
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if key := utils.GetConfig("AWS_ACCESS_KEY"); key != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Errorf("load aws config: %v", err)
		return &awsS3{}
	}
	return newAwsS3(s3.NewFromConfig(cfg), bucket, region)
}

func newAwsS3(client objectClient, bucket, region string) *awsS3 {
	return &awsS3{client: client, bucket: bucket, region: region}
}

func (a *awsS3) Enabled() bool {
	return a.client != nil && a.bucket != ""
}

func (a *awsS3) UploadBytes(ctx context.Context, filename string, data []byte, folder string, allowed ...string) (string, error) {
	if !a.Enabled() {
		return "", ErrStorageDisabled
	}
	contentType := http.DetectContentType(data)
	if len(allowed) > 0 && !slices.Contains(allowed, contentType) {
		return "", fmt.Errorf("%w: %s", ErrContentNotAllowed, contentType)
	}

	objectKey := path.Join(folder, filename+extension(contentType))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey, err)
	}
	return objectKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	if !a.Enabled() {
		return ErrStorageDisabled
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.baseURL() + objectKey
}

// GetObjectKeyFromLink returns "" for links outside this bucket.
func (a *awsS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, a.baseURL()) {
		return ""
	}
	return strings.TrimPrefix(link, a.baseURL())
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ""
}
