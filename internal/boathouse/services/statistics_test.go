package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutingReader struct {
	out []*models.Outing
	err error
	got outings.Query
}

func (f *fakeOutingReader) GetOutings(_ context.Context, q outings.Query) ([]*models.Outing, error) {
	f.got = q
	return f.out, f.err
}

func TestMemberStatistics(t *testing.T) {
	ann := &models.Member{ID: 1, FirstName: "Ann"}
	bob := &models.Member{ID: 2, FirstName: "Bob"}
	cid := &models.Member{ID: 3, FirstName: "Cid"}
	boat := &models.Boat{ID: 1, Name: "Emma"}

	o1 := newOuting(timex.NewDate(2023, 1, 1), "09:00", boat, ann, bob)
	o1.Distance = 10
	o2 := newOuting(timex.NewDate(2023, 1, 2), "09:00", boat, ann)
	o2.Cox = ann
	o2.Distance = 5
	o3 := newOuting(timex.NewDate(2023, 1, 3), "09:00", boat, cid)
	o3.Distance = 10

	reader := &fakeOutingReader{out: []*models.Outing{o1, o2, o3}}
	s := NewStatisticsService(reader)

	q := outings.Query{From: timex.NewDate(2023, 1, 1), To: timex.NewDate(2023, 12, 31)}
	got, err := s.MemberStatistics(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, q, reader.got)

	want := []models.MemberStatistic{
		{Member: *ann, Outings: 2, Distance: 15},
		{Member: *bob, Outings: 1, Distance: 10},
		{Member: *cid, Outings: 1, Distance: 10},
	}
	assert.Equal(t, want, got)
}

func TestBoatStatistics(t *testing.T) {
	m := &models.Member{ID: 1}
	emma := &models.Boat{ID: 1, Name: "Emma"}
	hope := &models.Boat{ID: 2, Name: "Hope"}

	o1 := newOuting(timex.NewDate(2023, 1, 1), "09:00", emma, m)
	o2 := newOuting(timex.NewDate(2023, 1, 2), "09:00", hope, m)
	o2.Distance = 7
	o3 := newOuting(timex.NewDate(2023, 1, 3), "09:00", emma, m)

	s := NewStatisticsService(&fakeOutingReader{out: []*models.Outing{o1, o2, o3}})
	got, err := s.BoatStatistics(context.Background(), outings.Query{})
	require.NoError(t, err)

	want := []models.BoatStatistic{
		{Boat: *hope, Outings: 1, Distance: 7},
		{Boat: *emma, Outings: 2, Distance: 0},
	}
	assert.Equal(t, want, got)
}

func TestStatistics_Error(t *testing.T) {
	s := NewStatisticsService(&fakeOutingReader{err: errors.New("boom")})
	_, err := s.MemberStatistics(context.Background(), outings.Query{})
	assert.EqualError(t, err, "boom")
	_, err = s.BoatStatistics(context.Background(), outings.Query{})
	assert.EqualError(t, err, "boom")
}
