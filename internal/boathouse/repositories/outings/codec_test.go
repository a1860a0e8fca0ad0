package outings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_EmptySeatIsNotMemberZero(t *testing.T) {
	lookup := newFakeLookup()
	codec := NewCodec(lookup, lookup)

	zero := lookup.addMember(0, "Zero")
	boat := lookup.addBoat(4, "Emma")
	o := outing(timex.NewDate(2023, 6, 1), "09:30", boat, zero)
	o.Seats[2] = lookup.addMember(5, "Five")

	row, err := codec.Encode(o)
	require.NoError(t, err)

	assert.True(t, row.Rowers[0].Valid)
	assert.Equal(t, int64(0), row.Rowers[0].Int64)
	assert.False(t, row.Rowers[1].Valid)
	assert.True(t, row.Rowers[2].Valid)
	assert.False(t, row.Cox.Valid)
	assert.False(t, row.TimeIn.Valid)
	assert.Equal(t, "2023-06-01", row.Day)
	assert.Equal(t, "09:30", row.TimeOut)
	assert.Equal(t, int64(4), row.Boat)
	assert.Len(t, row.Args(), 17)
	assert.Equal(t, o.ID, row.UpdateArgs()[16])
}

func TestEncode_RejectsInvalidOutings(t *testing.T) {
	lookup := newFakeLookup()
	codec := NewCodec(lookup, lookup)
	boat := &models.Boat{ID: 1}
	m := &models.Member{ID: 1}
	day := timex.NewDate(2023, 6, 1)

	tests := []struct {
		name   string
		mutate func(o *models.Outing)
	}{
		{"missing seat 1", func(o *models.Outing) { o.Seats[0] = nil }},
		{"missing boat", func(o *models.Outing) { o.Boat = nil }},
		{"missing day", func(o *models.Outing) { o.Day = time.Time{} }},
		{"bad time out", func(o *models.Outing) { o.TimeOut = timex.TimeOfDay{Hour: 25} }},
		{"bad time in", func(o *models.Outing) { o.TimeIn = &timex.TimeOfDay{Minute: 61} }},
		{"negative distance", func(o *models.Outing) { o.Distance = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := outing(day, "10:00", boat, m)
			tt.mutate(o)
			_, err := codec.Encode(o)
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
		})
	}

	_, err := codec.Encode(nil)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
}

func TestDecode_RoundTrip(t *testing.T) {
	lookup := newFakeLookup()
	codec := NewCodec(lookup, lookup)

	boat := lookup.addBoat(2, "Emma")
	o := outing(timex.NewDate(2023, 6, 1), "07:15", boat, lookup.addMember(1, "Ann"), lookup.addMember(0, "Zero"))
	o.Seats[7] = lookup.addMember(8, "Eight")
	o.Cox = lookup.addMember(9, "Cox")
	tin := timex.TimeOfDay{Hour: 9, Minute: 0}
	o.TimeIn = &tin
	o.Comment = "windy"
	o.Destination = "lock"
	o.Distance = 14

	row, err := codec.Encode(o)
	require.NoError(t, err)

	got, err := codec.Decode(context.Background(), []Row{*row})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, cmp.Diff(o, got[0]))
}

func TestDecode_MemoizesLookupsPerBatch(t *testing.T) {
	lookup := newFakeLookup()
	codec := NewCodec(lookup, lookup)
	boat := lookup.addBoat(2, "Emma")
	ann := lookup.addMember(1, "Ann")
	bob := lookup.addMember(3, "Bob")

	var rows []Row
	for range 5 {
		o := outing(timex.NewDate(2023, 6, 1), "07:15", boat, ann, bob)
		o.Cox = ann
		row, err := codec.Encode(o)
		require.NoError(t, err)
		rows = append(rows, *row)
	}

	got, err := codec.Decode(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, 1, lookup.memberCalls[1])
	assert.Equal(t, 1, lookup.memberCalls[3])
	assert.Equal(t, 1, lookup.boatCalls[2])
	assert.Same(t, got[0].Seats[0], got[4].Cox)

	// A new batch resolves again.
	_, err = codec.Decode(context.Background(), rows[:1])
	require.NoError(t, err)
	assert.Equal(t, 2, lookup.memberCalls[1])
}

func TestDecode_UnknownReferencesBecomePlaceholders(t *testing.T) {
	lookup := newFakeLookup()
	codec := NewCodec(lookup, lookup)

	o := outing(timex.NewDate(2023, 6, 1), "07:15", &models.Boat{ID: 77}, &models.Member{ID: 55})
	row, err := codec.Encode(o)
	require.NoError(t, err)

	got, err := codec.Decode(context.Background(), []Row{*row})
	require.NoError(t, err)
	assert.Equal(t, &models.Member{ID: 55}, got[0].Seats[0])
	assert.Equal(t, &models.Boat{ID: 77}, got[0].Boat)
}

func TestDecode_LookupFailurePropagates(t *testing.T) {
	lookup := newFakeLookup()
	codec := NewCodec(lookup, lookup)

	o := outing(timex.NewDate(2023, 6, 1), "07:15", &models.Boat{ID: 1}, &models.Member{ID: 1})
	row, err := codec.Encode(o)
	require.NoError(t, err)

	lookup.err = errors.New("members table locked")
	_, err = codec.Decode(context.Background(), []Row{*row})
	assert.ErrorContains(t, err, "members table locked")
}

func TestDecode_CorruptRow(t *testing.T) {
	lookup := newFakeLookup()
	codec := NewCodec(lookup, lookup)

	_, err := codec.Decode(context.Background(), []Row{{ID: "x", Day: "yesterday", TimeOut: "09:00"}})
	assert.Error(t, err)

	_, err = codec.Decode(context.Background(), []Row{{ID: "x", Day: "2023-01-01", TimeOut: "nine"}})
	assert.Error(t, err)
}
