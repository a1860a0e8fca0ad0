package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/config"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
	opts s3.Options
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func stubS3(t *testing.T, p *fakePutter) {
	t.Helper()
	origLoad, origNew := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNew })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) ObjectPutter {
		for _, fn := range optFns {
			fn(&p.opts)
		}
		return p
	}
}

func TestArchiveKey(t *testing.T) {
	id := uuid.MustParse("6f1c2c36-7f7a-4c1e-9d43-2f6b0f0c9a11")
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "archives/2023/20240203T030506Z-6f1c2c36-7f7a-4c1e-9d43-2f6b0f0c9a11.json", ArchiveKey(2023, at, id))
}

func TestArchiveYear_Uploads(t *testing.T) {
	putter := &fakePutter{}
	stubS3(t, putter)

	ann := &models.Member{ID: 0, FirstName: "Ann"}
	boat := &models.Boat{ID: 4, Name: "Emma"}
	o := newOuting(timex.NewDate(2023, 5, 1), "09:00", boat, ann)
	o.ID = "o-1"
	o.Seats[3] = &models.Member{ID: 9}
	o.Cox = ann
	o.Distance = 12
	reader := &fakeOutingReader{out: []*models.Outing{o}}

	cfg := &config.Config{S3Bucket: "club", S3BaseEndpoint: "http://minio:9000/"}
	s := NewArchiveService(reader, cfg, logging.NewNopLogger())
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	key, n, err := s.ArchiveYear(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, strings.HasPrefix(key, "archives/2023/20240101T000000Z-"), key)

	assert.True(t, reader.got.From.Equal(timex.NewDate(2023, 1, 1)))
	assert.True(t, reader.got.To.Equal(timex.NewDate(2023, 12, 31)))

	require.NotNil(t, putter.in)
	assert.Equal(t, "club", aws.ToString(putter.in.Bucket))
	assert.Equal(t, key, aws.ToString(putter.in.Key))
	assert.Equal(t, "application/json", aws.ToString(putter.in.ContentType))
	assert.Equal(t, "http://minio:9000/", aws.ToString(putter.opts.BaseEndpoint))

	var doc Archive
	require.NoError(t, json.Unmarshal(putter.body, &doc))
	assert.Equal(t, 2023, doc.Year)
	require.Len(t, doc.Outings, 1)
	got := doc.Outings[0]
	assert.Equal(t, "2023-05-01", got.Day)
	assert.Equal(t, ArchivedRef{ID: 4, Name: "Emma"}, got.Boat)
	assert.Equal(t, []ArchivedSeat{
		{Seat: 1, ArchivedRef: ArchivedRef{ID: 0, Name: "Ann"}},
		{Seat: 4, ArchivedRef: ArchivedRef{ID: 9, Name: "#9"}},
	}, got.Crew)
	assert.Equal(t, &ArchivedRef{ID: 0, Name: "Ann"}, got.Cox)
	assert.Equal(t, "09:00", got.TimeOut)
	assert.Empty(t, got.TimeIn)
	assert.Equal(t, 12, got.Distance)
}

func TestArchiveYear_UploadError(t *testing.T) {
	stubS3(t, &fakePutter{err: errors.New("bucket missing")})

	s := NewArchiveService(&fakeOutingReader{}, &config.Config{S3Bucket: "club"}, logging.NewNopLogger())
	_, _, err := s.ArchiveYear(context.Background(), 2023)
	assert.ErrorContains(t, err, "bucket missing")
}

func TestArchiveYear_ConfigError(t *testing.T) {
	stubS3(t, &fakePutter{})
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no region")
	}

	s := NewArchiveService(&fakeOutingReader{}, &config.Config{}, logging.NewNopLogger())
	_, _, err := s.ArchiveYear(context.Background(), 2023)
	assert.EqualError(t, err, "no region")
}

func TestArchiveYear_EmptyYear(t *testing.T) {
	putter := &fakePutter{}
	stubS3(t, putter)

	s := NewArchiveService(&fakeOutingReader{}, &config.Config{S3Bucket: "club"}, logging.NewNopLogger())
	_, n, err := s.ArchiveYear(context.Background(), 1999)
	require.NoError(t, err)
	assert.Zero(t, n)

	var doc Archive
	require.NoError(t, json.Unmarshal(putter.body, &doc))
	assert.NotNil(t, doc.Outings)
	assert.Empty(t, doc.Outings)
}
