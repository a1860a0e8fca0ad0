package models

// MemberStatistic aggregates the outings of one member over a period.
type MemberStatistic struct {
	Member
	Outings  int
	Distance int
}

// BoatStatistic aggregates the outings of one boat over a period.
type BoatStatistic struct {
	Boat
	Outings  int
	Distance int
}
