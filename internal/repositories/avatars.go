package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AvatarStore issues presigned URLs for direct avatar uploads to an
// S3-compatible bucket (Cloudflare R2 in production). The server never
// proxies image bytes.
type AvatarStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewAvatarStore initializes the R2 client with static credentials and a
// custom endpoint.
func NewAvatarStore(accessKey, secretKey, accountID, bucket, region, publicBaseURL string) *AvatarStore {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized avatar storage client")

	return &AvatarStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}
}

// PresignUpload creates a presigned PUT URL for the given object key and
// returns it along with the public URL the avatar will be served from.
func (a *AvatarStore) PresignUpload(ctx context.Context, key string, expires time.Duration) (uploadURL, publicURL string, err error) {
	presigner := s3.NewPresignClient(a.client)
	req, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", "", err
	}
	return req.URL, fmt.Sprintf("%s/%s", a.publicBaseURL, key), nil
}
