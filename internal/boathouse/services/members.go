package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/boathouse/internal/boathouse/models"
	"github.com/dmitrijs2005/boathouse/internal/boathouse/repositories/repomanager"
	"github.com/dmitrijs2005/boathouse/internal/common"
)

// ReferenceReplacer rewrites member and boat references in stored outings.
// OutingService implements it.
type ReferenceReplacer interface {
	ReplaceMember(ctx context.Context, oldID, newID int64) (int64, error)
	ReplaceBoat(ctx context.Context, oldID, newID int64) (int64, error)
}

// MemberService manages the member list. Deleting a member hands its
// outing history over to a substitute member.
type MemberService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	outings     ReferenceReplacer
}

func NewMemberService(db *sql.DB, m repomanager.RepositoryManager, outings ReferenceReplacer) *MemberService {
	return &MemberService{db: db, repomanager: m, outings: outings}
}

func (s *MemberService) AddMember(ctx context.Context, m *models.Member) (*models.Member, error) {
	if m.FirstName == "" && m.LastName == "" {
		return nil, common.InvalidArgument("member has no name")
	}
	return s.repomanager.Members(s.db).Create(ctx, m)
}

func (s *MemberService) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	return s.repomanager.Members(s.db).GetMember(ctx, id)
}

func (s *MemberService) ListMembers(ctx context.Context) ([]*models.Member, error) {
	return s.repomanager.Members(s.db).List(ctx)
}

// DeleteMember moves every outing reference of id to substituteID and then
// deletes the member. It returns the number of outings rewritten.
func (s *MemberService) DeleteMember(ctx context.Context, id, substituteID int64) (int64, error) {
	if id == substituteID {
		return 0, common.InvalidArgument("member %d cannot substitute itself", id)
	}
	repo := s.repomanager.Members(s.db)
	if _, err := repo.GetMember(ctx, substituteID); err != nil {
		return 0, fmt.Errorf("substitute member %d: %w", substituteID, err)
	}

	n, err := s.outings.ReplaceMember(ctx, id, substituteID)
	if err != nil {
		return n, err
	}
	deleted, err := repo.Delete(ctx, id)
	if err != nil {
		return n, err
	}
	if deleted == 0 {
		return n, fmt.Errorf("member %d: %w", id, common.ErrorNotFound)
	}
	return n, nil
}

// BoatService manages the fleet. Deleting a boat hands its outing history
// over to a substitute boat.
type BoatService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	outings     ReferenceReplacer
}

func NewBoatService(db *sql.DB, m repomanager.RepositoryManager, outings ReferenceReplacer) *BoatService {
	return &BoatService{db: db, repomanager: m, outings: outings}
}

func (s *BoatService) AddBoat(ctx context.Context, b *models.Boat) (*models.Boat, error) {
	if b.Name == "" {
		return nil, common.InvalidArgument("boat has no name")
	}
	if b.Seats < 1 || b.Seats > models.SeatCount {
		return nil, common.InvalidArgument("boat %q has %d seats", b.Name, b.Seats)
	}
	return s.repomanager.Boats(s.db).Create(ctx, b)
}

func (s *BoatService) GetBoat(ctx context.Context, id int64) (*models.Boat, error) {
	return s.repomanager.Boats(s.db).GetBoat(ctx, id)
}

func (s *BoatService) ListBoats(ctx context.Context) ([]*models.Boat, error) {
	return s.repomanager.Boats(s.db).List(ctx)
}

// DeleteBoat moves every outing reference of id to substituteID and then
// deletes the boat. It returns the number of outings rewritten.
func (s *BoatService) DeleteBoat(ctx context.Context, id, substituteID int64) (int64, error) {
	if id == substituteID {
		return 0, common.InvalidArgument("boat %d cannot substitute itself", id)
	}
	repo := s.repomanager.Boats(s.db)
	if _, err := repo.GetBoat(ctx, substituteID); err != nil {
		return 0, fmt.Errorf("substitute boat %d: %w", substituteID, err)
	}

	n, err := s.outings.ReplaceBoat(ctx, id, substituteID)
	if err != nil {
		return n, err
	}
	deleted, err := repo.Delete(ctx, id)
	if err != nil {
		return n, err
	}
	if deleted == 0 {
		return n, fmt.Errorf("boat %d: %w", id, common.ErrorNotFound)
	}
	return n, nil
}
