package outings

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	d := func(y, m, day int) time.Time { return timex.NewDate(y, time.Month(m), day) }

	tests := []struct {
		name     string
		from, to time.Time
		existing []int
		want     []SubRange
	}{
		{
			name: "inside one year", from: d(2023, 3, 1), to: d(2023, 4, 1), existing: []int{2023},
			want: []SubRange{{2023, d(2023, 3, 1), d(2023, 4, 1)}},
		},
		{
			name: "year boundary", from: d(2022, 12, 30), to: d(2023, 1, 2), existing: []int{2022, 2023},
			want: []SubRange{
				{2022, d(2022, 12, 30), d(2022, 12, 31)},
				{2023, d(2023, 1, 1), d(2023, 1, 2)},
			},
		},
		{
			name: "middle year is whole", from: d(2021, 6, 1), to: d(2023, 2, 1), existing: []int{2021, 2022, 2023},
			want: []SubRange{
				{2021, d(2021, 6, 1), d(2021, 12, 31)},
				{2022, d(2022, 1, 1), d(2022, 12, 31)},
				{2023, d(2023, 1, 1), d(2023, 2, 1)},
			},
		},
		{
			name: "missing partitions skipped", from: d(2019, 1, 1), to: d(2023, 12, 31), existing: []int{2020, 2022, 2030},
			want: []SubRange{
				{2020, d(2020, 1, 1), d(2020, 12, 31)},
				{2022, d(2022, 1, 1), d(2022, 12, 31)},
			},
		},
		{
			name: "reversed range", from: d(2023, 1, 2), to: d(2022, 12, 30), existing: []int{2022, 2023},
			want: nil,
		},
		{
			name: "no partitions", from: d(2023, 1, 1), to: d(2023, 12, 31), existing: nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plan(tt.from, tt.to, tt.existing))
		})
	}
}

func TestPlanner_ReversedRangeIsEmpty(t *testing.T) {
	f := newFixture(t)
	boat := f.lookup.addBoat(1, "Emma")
	ann := f.lookup.addMember(1, "Ann")
	f.insert(t, outing(timex.NewDate(2023, 1, 1), "09:00", boat, ann))

	got, err := f.repo.Query(context.Background(), Query{From: timex.NewDate(2023, 1, 2), To: timex.NewDate(2022, 12, 30)})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPlanner_SameDayIgnoresClockTimes(t *testing.T) {
	f := newFixture(t)
	boat := f.lookup.addBoat(1, "Emma")
	ann := f.lookup.addMember(1, "Ann")
	f.insert(t, outing(timex.NewDate(2023, 6, 1), "09:00", boat, ann))

	q := Query{
		From: time.Date(2023, 6, 1, 18, 0, 0, 0, time.UTC),
		To:   time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC),
	}
	got, err := f.repo.Query(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, timex.NewDate(2023, 6, 1), got[0].Day)
}
