// Package models defines the boathouse domain records.
package models

import (
	"time"

	"github.com/dmitrijs2005/boathouse/internal/timex"
)

// SeatCount is the number of rower seats in an outing.
const SeatCount = 8

// Outing is one dated trip on the water. It lives in the partition of the
// calendar year of Day.
type Outing struct {
	ID  string
	Day time.Time

	// Seats holds the rowers in seat order. Seats[0] is mandatory; an empty
	// seat is nil.
	Seats [SeatCount]*Member
	Cox   *Member

	TimeOut timex.TimeOfDay
	TimeIn  *timex.TimeOfDay

	Comment     string
	Destination string
	Boat        *Boat

	// Distance in kilometres; 0 means unset.
	Distance int
}

// Year is the partition key of the outing.
func (o *Outing) Year() int {
	return o.Day.Year()
}

// HasMember reports whether the member with id rowed or coxed the outing.
func (o *Outing) HasMember(id int64) bool {
	if o.Cox != nil && o.Cox.ID == id {
		return true
	}
	for _, s := range o.Seats {
		if s != nil && s.ID == id {
			return true
		}
	}
	return false
}

// Crew returns the occupied seats followed by the cox, if any.
func (o *Outing) Crew() []*Member {
	crew := make([]*Member, 0, SeatCount+1)
	for _, s := range o.Seats {
		if s != nil {
			crew = append(crew, s)
		}
	}
	if o.Cox != nil {
		crew = append(crew, o.Cox)
	}
	return crew
}
