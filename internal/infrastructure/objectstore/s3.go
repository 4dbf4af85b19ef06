package objectstore

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	ErrInvalidURI    = errors.New("S3_URI is not a valid URL")
	ErrMissingBucket = errors.New("S3_URI must include a bucket name in the path (e.g. https://endpoint/bucket-name)")
)

// Location is an S3-compatible endpoint plus the bucket inside it.
type Location struct {
	Endpoint string
	Bucket   string
}

// ParseURI splits "scheme://host/bucket[/...]" into endpoint and bucket.
func ParseURI(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Location{}, ErrInvalidURI
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			return Location{Endpoint: u.Scheme + "://" + u.Host, Bucket: seg}, nil
		}
	}
	return Location{}, ErrMissingBucket
}

// S3Bucket lists and presigns objects of one bucket.
type S3Bucket struct {
	Bucket  string
	client  *s3.Client
	presign *s3.PresignClient
}

// NewS3Bucket builds a client for R2/MinIO-style endpoints: region "auto",
// path-style addressing, static credentials.
func NewS3Bucket(uri, accessKeyID, secret string) (*S3Bucket, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	cfg := aws.Config{
		Region:      "auto",
		Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secret, ""),
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(loc.Endpoint)
		o.UsePathStyle = true
	})
	return &S3Bucket{
		Bucket:  loc.Bucket,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (b *S3Bucket) ListPage(ctx context.Context, continuation string) ([]string, string, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(b.Bucket)}
	if continuation != "" {
		in.ContinuationToken = aws.String(continuation)
	}
	out, err := b.client.ListObjectsV2(ctx, in)
	if err != nil {
		return nil, "", err
	}
	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if k := aws.ToString(obj.Key); k != "" {
			keys = append(keys, k)
		}
	}
	next := ""
	if aws.ToBool(out.IsTruncated) {
		next = aws.ToString(out.NextContinuationToken)
	}
	return keys, next, nil
}

func (b *S3Bucket) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
