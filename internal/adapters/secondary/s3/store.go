package s3

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

type artifactStore struct {
	client *awss3.Client
	bucket string
}

// NewArtifactStore creates an S3-backed ArtifactStore
func NewArtifactStore(ctx context.Context, bucket, region, endpoint string) (output.ArtifactStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &artifactStore{client: client, bucket: bucket}, nil
}

// NewArtifactStoreFromClient wires an existing client, used by tests against
// localstack/minio style endpoints.
func NewArtifactStoreFromClient(client *awss3.Client, bucket string) output.ArtifactStore {
	return &artifactStore{client: client, bucket: bucket}
}

func (s *artifactStore) PutFile(ctx context.Context, key, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *artifactStore) Get(ctx context.Context, key, rangeHeader string) (*output.ArtifactContent, error) {
	input := &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if rangeHeader != "" {
		input.Range = aws.String(rangeHeader)
	}

	obj, err := s.client.GetObject(ctx, input)
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	content := &output.ArtifactContent{
		Body:          obj.Body,
		ContentType:   aws.ToString(obj.ContentType),
		ContentRange:  aws.ToString(obj.ContentRange),
		ContentLength: aws.ToInt64(obj.ContentLength),
	}
	return content, nil
}

func (s *artifactStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
