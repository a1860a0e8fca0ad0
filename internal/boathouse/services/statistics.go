package services

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
)

// OutingReader is the read side of OutingService.
type OutingReader interface {
	GetOutings(ctx context.Context, q outings.Query) ([]*models.Outing, error)
}

// StatisticsService aggregates outings per member and per boat.
type StatisticsService struct {
	outings OutingReader
}

func NewStatisticsService(outings OutingReader) *StatisticsService {
	return &StatisticsService{outings: outings}
}

// MemberStatistics counts outings and distance per crew member (rowers and
// cox) over q. The result is ordered by distance, then outings, descending.
func (s *StatisticsService) MemberStatistics(ctx context.Context, q outings.Query) ([]models.MemberStatistic, error) {
	list, err := s.outings.GetOutings(ctx, q)
	if err != nil {
		return nil, err
	}

	byID := map[int64]*models.MemberStatistic{}
	for _, o := range list {
		seen := map[int64]bool{}
		for _, m := range o.Crew() {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			st, ok := byID[m.ID]
			if !ok {
				st = &models.MemberStatistic{Member: *m}
				byID[m.ID] = st
			}
			st.Outings++
			st.Distance += o.Distance
		}
	}

	out := make([]models.MemberStatistic, 0, len(byID))
	for _, st := range byID {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Distance, out[j].Distance, out[i].Outings, out[j].Outings, out[i].ID, out[j].ID)
	})
	return out, nil
}

// BoatStatistics counts outings and distance per boat over q, ordered like
// MemberStatistics.
func (s *StatisticsService) BoatStatistics(ctx context.Context, q outings.Query) ([]models.BoatStatistic, error) {
	list, err := s.outings.GetOutings(ctx, q)
	if err != nil {
		return nil, err
	}

	byID := map[int64]*models.BoatStatistic{}
	for _, o := range list {
		st, ok := byID[o.Boat.ID]
		if !ok {
			st = &models.BoatStatistic{Boat: *o.Boat}
			byID[o.Boat.ID] = st
		}
		st.Outings++
		st.Distance += o.Distance
	}

	out := make([]models.BoatStatistic, 0, len(byID))
	for _, st := range byID {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Distance, out[j].Distance, out[i].Outings, out[j].Outings, out[i].ID, out[j].ID)
	})
	return out, nil
}

func less(distI, distJ, outI, outJ int, idI, idJ int64) bool {
	if distI != distJ {
		return distI > distJ
	}
	if outI != outJ {
		return outI > outJ
	}
	return idI < idJ
}
