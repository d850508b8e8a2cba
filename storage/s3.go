package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"Postline/utils/fileformat"

	aws2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const MaxImageSize = 5 << 20 // 5MB

var (
	ErrInvalidImage  = errors.New("not a valid image")
	ErrImageTooLarge = fmt.Errorf("image exceeds %dMB", MaxImageSize>>20)
)

// ValidateImage rejects anything that does not sniff and decode as an image.
// Only the verdict matters to callers; the bytes are never inspected again.
func ValidateImage(data []byte) error {
	if int64(len(data)) > MaxImageSize {
		return ErrImageTooLarge
	}
	fileType := http.DetectContentType(data)
	if !strings.HasPrefix(fileType, "image/") {
		return ErrInvalidImage
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return ErrInvalidImage
	}
	return nil
}

// UploadImage validates the bytes and puts them under the posts/ prefix,
// returning the stored object key.
func UploadImage(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ValidateImage(data); err != nil {
		return "", err
	}

	rawBucket := os.Getenv("S3_BUCKET")
	bucketName := strings.SplitN(rawBucket, "/", 2)[0]
	if bucketName == "" {
		return "", fmt.Errorf("S3_BUCKET env var is empty or invalid: '%s'", rawBucket)
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return "", err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	key := "posts/" + fileformat.UniqueFormat(fileName)
	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws2.String(bucketName),
		Key:           aws2.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws2.Int64(int64(len(data))),
		ContentType:   aws2.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// PublicURL builds the virtual-host style URL for a stored key.
func PublicURL(key string) string {
	if key == "" || strings.HasPrefix(key, "http") {
		return key
	}
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-2"
	}
	return "https://" + bucket + ".s3." + region + ".amazonaws.com/" + key
}
