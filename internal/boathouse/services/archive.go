package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
	"github.com/dmitrijs2005/boathouse/internal/config"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/google/uuid"
)

// ObjectPutter is the part of the S3 client the archive uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ArchivedRef is a member or boat as it was named at export time.
type ArchivedRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ArchivedSeat is an occupied seat; Seat counts from 1.
type ArchivedSeat struct {
	Seat int `json:"seat"`
	ArchivedRef
}

type ArchivedOuting struct {
	ID          string         `json:"id"`
	Day         string         `json:"day"`
	Boat        ArchivedRef    `json:"boat"`
	Crew        []ArchivedSeat `json:"crew"`
	Cox         *ArchivedRef   `json:"cox,omitempty"`
	TimeOut     string         `json:"time_out"`
	TimeIn      string         `json:"time_in,omitempty"`
	Comment     string         `json:"comment,omitempty"`
	Destination string         `json:"destination,omitempty"`
	Distance    int            `json:"distance,omitempty"`
}

// Archive is the document uploaded for one year.
type Archive struct {
	Year       int              `json:"year"`
	ExportedAt time.Time        `json:"exported_at"`
	Outings    []ArchivedOuting `json:"outings"`
}

// ArchiveService exports a year of outings as one JSON object to
// S3-compatible storage.
type ArchiveService struct {
	outings OutingReader
	config  *config.Config
	logger  logging.Logger
	now     func() time.Time
}

func NewArchiveService(outings OutingReader, cfg *config.Config, logger logging.Logger) *ArchiveService {
	return &ArchiveService{
		outings: outings,
		config:  cfg,
		logger:  logger.With("component", "archive_service"),
		now:     time.Now,
	}
}

// ArchiveKey is the object key of an export of year taken at t.
func ArchiveKey(year int, t time.Time, id uuid.UUID) string {
	return fmt.Sprintf("archives/%d/%s-%v.json", year, t.UTC().Format("20060102T150405Z"), id)
}

func (s *ArchiveService) getClient(ctx context.Context) (ObjectPutter, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// ArchiveYear uploads every outing of year and returns the object key and
// the number of outings exported.
func (s *ArchiveService) ArchiveYear(ctx context.Context, year int) (string, int, error) {
	list, err := s.outings.GetOutings(ctx, outings.Query{From: timex.YearStart(year), To: timex.YearEnd(year)})
	if err != nil {
		return "", 0, err
	}

	now := s.now()
	doc := BuildArchive(year, now, list)
	body, err := json.Marshal(doc)
	if err != nil {
		return "", 0, fmt.Errorf("encode archive: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", 0, err
	}

	bucket := s.config.S3Bucket
	key := ArchiveKey(year, now, uuid.New())
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", 0, fmt.Errorf("upload archive %s: %w", key, err)
	}

	s.logger.Info(ctx, "year archived", "year", year, "key", key, "outings", len(list))
	return key, len(list), nil
}

// BuildArchive flattens outings into the archive document.
func BuildArchive(year int, now time.Time, list []*models.Outing) *Archive {
	doc := &Archive{Year: year, ExportedAt: now.UTC(), Outings: make([]ArchivedOuting, 0, len(list))}
	for _, o := range list {
		a := ArchivedOuting{
			ID:          o.ID,
			Day:         timex.FormatDate(o.Day),
			Boat:        ArchivedRef{ID: o.Boat.ID, Name: o.Boat.DisplayName()},
			Crew:        []ArchivedSeat{},
			TimeOut:     o.TimeOut.String(),
			Comment:     o.Comment,
			Destination: o.Destination,
			Distance:    o.Distance,
		}
		for i, m := range o.Seats {
			if m != nil {
				a.Crew = append(a.Crew, ArchivedSeat{Seat: i + 1, ArchivedRef: ArchivedRef{ID: m.ID, Name: m.DisplayName()}})
			}
		}
		if o.Cox != nil {
			a.Cox = &ArchivedRef{ID: o.Cox.ID, Name: o.Cox.DisplayName()}
		}
		if o.TimeIn != nil {
			a.TimeIn = o.TimeIn.String()
		}
		doc.Outings = append(doc.Outings, a)
	}
	return doc
}
