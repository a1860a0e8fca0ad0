// Package services contains the boathouse business logic. This file
// implements OutingService, the facade over the partitioned outing store.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/outings"
	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/dmitrijs2005/boathouse/internal/logging"
	"github.com/dmitrijs2005/boathouse/internal/timex"
	"github.com/google/uuid"
)

// MetricsRecorder receives the outcome of every facade operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Observe(context.Context, string, bool, time.Duration) {}

// OutingService adds, reads, modifies and removes outings and rewrites
// member and boat references across every year.
type OutingService struct {
	repo     outings.Repository
	logger   logging.Logger
	recorder MetricsRecorder
	newID    func() string
}

// OutingOption configures an OutingService.
type OutingOption func(*OutingService)

// WithRecorder reports operation outcomes to r.
func WithRecorder(r MetricsRecorder) OutingOption {
	return func(s *OutingService) { s.recorder = r }
}

func NewOutingService(repo outings.Repository, logger logging.Logger, opts ...OutingOption) *OutingService {
	s := &OutingService{
		repo:     repo,
		logger:   logger.With("component", "outing_service"),
		recorder: nopRecorder{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// track starts timing op; the returned func records the outcome held by err.
func (s *OutingService) track(ctx context.Context, op string) func(err *error) {
	start := time.Now()
	return func(err *error) {
		s.recorder.Observe(ctx, op, *err == nil, time.Since(start))
	}
}

// AddOuting stores o in the partition of its day, creating the partition if
// needed, and returns the id assigned to it.
func (s *OutingService) AddOuting(ctx context.Context, o *models.Outing) (id string, err error) {
	defer s.track(ctx, "add_outing")(&err)

	if err := outings.Validate(o); err != nil {
		return "", err
	}
	if o.ID == "" {
		o.ID = s.newID()
	}
	if err := s.repo.Insert(ctx, o); err != nil {
		return "", err
	}
	s.logger.Debug(ctx, "outing added", "id", o.ID, "day", timex.FormatDate(o.Day))
	return o.ID, nil
}

// GetOutingsByDay returns the outings of day ordered by time out. A day
// without a partition has no outings.
func (s *OutingService) GetOutingsByDay(ctx context.Context, day time.Time) (res []*models.Outing, err error) {
	defer s.track(ctx, "get_outings_by_day")(&err)
	return s.repo.GetByDay(ctx, day)
}

// GetOutings returns the outings of [q.From, q.To] matching the optional
// member and boat filters, ordered by day and time out.
func (s *OutingService) GetOutings(ctx context.Context, q outings.Query) (res []*models.Outing, err error) {
	defer s.track(ctx, "get_outings")(&err)
	return s.repo.Query(ctx, q)
}

// GetOuting returns the outing with id or common.ErrorNotFound.
func (s *OutingService) GetOuting(ctx context.Context, id string) (o *models.Outing, err error) {
	defer s.track(ctx, "get_outing")(&err)
	return s.repo.GetByID(ctx, id)
}

// ModifyOuting stores the new state of an existing outing. When its day
// moved to another year, it is inserted into the new partition under the
// same id and then removed from the old one.
func (s *OutingService) ModifyOuting(ctx context.Context, o *models.Outing) (err error) {
	defer s.track(ctx, "modify_outing")(&err)

	if err := outings.Validate(o); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}

	if current.Year() == o.Year() {
		n, err := s.repo.Update(ctx, o)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("outing %s: %w", o.ID, common.ErrorNotFound)
		}
		return nil
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		return err
	}
	if _, err := s.repo.Delete(ctx, current.Year(), o.ID); err != nil {
		return fmt.Errorf("remove outing %s from %d: %w", o.ID, current.Year(), err)
	}
	s.logger.Info(ctx, "outing moved", "id", o.ID, "from", current.Year(), "to", o.Year())
	return nil
}

// RemoveOuting deletes o from the partition of its day.
func (s *OutingService) RemoveOuting(ctx context.Context, o *models.Outing) (err error) {
	defer s.track(ctx, "remove_outing")(&err)

	if o == nil || o.ID == "" {
		return common.InvalidArgument("outing id is empty")
	}
	n, err := s.repo.Delete(ctx, o.Year(), o.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("outing %s: %w", o.ID, common.ErrorNotFound)
	}
	return nil
}

// ReplaceMember rewrites every seat and cox reference to oldID into newID in
// every year and returns the number of outings changed.
func (s *OutingService) ReplaceMember(ctx context.Context, oldID, newID int64) (n int64, err error) {
	defer s.track(ctx, "replace_member")(&err)

	n, err = s.repo.ReplaceMember(ctx, oldID, newID)
	if err != nil {
		return n, err
	}
	s.logger.Info(ctx, "member replaced", "old", oldID, "new", newID, "outings", n)
	return n, nil
}

// ReplaceBoat rewrites every reference to boat oldID into newID in every
// year and returns the number of outings changed.
func (s *OutingService) ReplaceBoat(ctx context.Context, oldID, newID int64) (n int64, err error) {
	defer s.track(ctx, "replace_boat")(&err)

	n, err = s.repo.ReplaceBoat(ctx, oldID, newID)
	if err != nil {
		return n, err
	}
	s.logger.Info(ctx, "boat replaced", "old", oldID, "new", newID, "outings", n)
	return n, nil
}
