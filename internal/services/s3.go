package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"passport/internal/utils/crypto"
	"passport/internal/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveService pushes aged audit batches to S3-compatible cold storage.
type ArchiveService struct {
	client     *s3.Client
	bucketName string
	endpoint   string
	region     string
	logger     *logger.Logger
}

func NewArchiveService(bucketName, endpoint, region, accessKey, secretKey string) (*ArchiveService, error) {
	log := logger.New("ARCHIVE")

	if accessKey == "" || secretKey == "" {
		return nil, log.Error("archive storage credentials are empty ❌", fmt.Errorf("accessKey or secretKey is empty"))
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			secretKey,
			"",
		)),
		config.WithRetryMode(aws.RetryModeStandard),
		config.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, log.Error("Unable to load SDK config ❌", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.%s", region, endpoint))
		}
	})

	// Verify credentials before accepting the service as healthy
	_, err = client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		return nil, log.Error("Failed to verify archive storage credentials ❌", err)
	}

	log.Success("Archive storage initialized successfully ✅")

	return &ArchiveService{
		client:     client,
		bucketName: bucketName,
		endpoint:   endpoint,
		region:     region,
		logger:     log,
	}, nil
}

// StoreBatch uploads one exported audit batch as a JSON object. The object
// key embeds the batch date and an HMAC checksum of the payload so exports
// can be verified after the source rows are purged.
func (s *ArchiveService) StoreBatch(ctx context.Context, batchDate time.Time, payload []byte) (string, error) {
	checksum := crypto.ComputeSignature(payload)
	key := fmt.Sprintf("audit/%s/%s.json", batchDate.Format("2006-01-02"), checksum[:16])

	s.logger.Info("📤 Uploading audit batch: %s (%d bytes)", key, len(payload))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"checksum": checksum,
		},
	})
	if err != nil {
		return "", s.logger.Error("Failed to upload audit batch ❌", err)
	}

	s.logger.Success("✅ Audit batch archived: %s", key)
	return key, nil
}
