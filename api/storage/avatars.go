// Package storage keeps user-uploaded files.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AvatarPrefix is the key prefix for profile pictures.
const AvatarPrefix = "UserProfilePics/"

// AvatarStore saves avatar images and resolves their public URLs.
type AvatarStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) error
	URL(name string) string
}

// putObjectAPI is the part of *s3.Client S3Avatars uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Avatars struct {
	client putObjectAPI
	bucket string
	region string
}

// NewS3Avatars loads the default AWS credential chain for region.
func NewS3Avatars(ctx context.Context, bucket, region string) (*S3Avatars, error) {
	if bucket == "" {
		return nil, errors.New("S3_BUCKET is not set")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3Avatars{client: client, bucket: bucket, region: region}, nil
}

func (s *S3Avatars) Put(ctx context.Context, name, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(AvatarPrefix + name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", name, err)
	}
	return nil
}

// URL returns the virtual-host style URL for a stored avatar. Values that are
// already absolute are returned unchanged.
func (s *S3Avatars) URL(name string) string {
	return AvatarURL(s.bucket, s.region, name)
}

func AvatarURL(bucket, region, name string) string {
	if name == "" || strings.HasPrefix(name, "http") {
		return name
	}
	key := name
	if !strings.HasPrefix(key, AvatarPrefix) {
		key = AvatarPrefix + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
