// Package reports archives every TickReport as a JSON object in S3 (or any
// S3-compatible store such as MinIO).
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/datafaker/internal/growth"
	"github.com/dmitrijs2005/datafaker/internal/logging"
	"github.com/dmitrijs2005/datafaker/internal/timex"
)

// Uploader is the subset of *s3.Client used by the archiver.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Settings carries connection details for NewS3Client.
type S3Settings struct {
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// NewS3Client builds a client with static credentials. A custom endpoint
// switches to path-style addressing, which MinIO requires.
func NewS3Client(ctx context.Context, s S3Settings) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.BaseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

type document struct {
	RunID      string         `json:"runId"`
	Date       string         `json:"date"`
	Users      int64          `json:"users"`
	Signins    int64          `json:"signins"`
	NewUsers   int            `json:"newUsers"`
	NewSignins int            `json:"newSignins"`
	Elapsed    timex.Duration `json:"elapsed"`
}

type Archiver struct {
	client Uploader
	bucket string
	runID  string
	logger logging.Logger
}

func NewArchiver(client Uploader, bucket, runID string, l logging.Logger) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		runID:  runID,
		logger: l.With("module", "reports"),
	}
}

// Key is the object key of the report for the simulated day date.
func Key(runID string, date time.Time) string {
	return fmt.Sprintf("reports/%s/%s.json", runID, date.Format(time.DateOnly))
}

// Put uploads one report.
func (a *Archiver) Put(ctx context.Context, r growth.TickReport) error {
	body, err := json.Marshal(document{
		RunID:      a.runID,
		Date:       r.Date.Format(time.DateOnly),
		Users:      r.Users,
		Signins:    r.Signins,
		NewUsers:   r.NewUsers,
		NewSignins: r.NewSignins,
		Elapsed:    timex.Duration{Duration: r.Elapsed},
	})
	if err != nil {
		return err
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(a.runID, r.Date)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put report: %w", err)
	}
	return nil
}

// ObserveTick uploads r and only logs failures; archiving never stops the run.
func (a *Archiver) ObserveTick(ctx context.Context, r growth.TickReport) {
	if err := a.Put(ctx, r); err != nil {
		a.logger.Warn(ctx, "failed to archive tick report", "error", err, "date", r.Date.Format(time.DateOnly))
	}
}
