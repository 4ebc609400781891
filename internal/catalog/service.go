package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/restaurant-delivery/internal/apperr"
)

type Service struct {
	repo    Repo
	history OrderHistory
	logger  *zap.Logger
}

func NewService(repo Repo, history OrderHistory, logger *zap.Logger) *Service {
	return &Service{repo: repo, history: history, logger: logger}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Dish, error) {
	dish, err := s.repo.Get(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		s.logger.Warn("dish not found", zap.String("dish_id", id.String()))
	}
	return dish, err
}

func (s *Service) List(ctx context.Context, filter Filter, sorting Sorting, page int) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("%w: page must be at least 1", apperr.ErrInvalidRequest)
	}
	dishes, total, err := s.repo.List(ctx, filter, sorting, PageSize, (page-1)*PageSize)
	if err != nil {
		s.logger.Error("cannot list dishes", zap.Error(err))
		return Page{}, err
	}
	if dishes == nil {
		dishes = []Dish{}
	}
	return Page{
		Dishes:     dishes,
		Pagination: PageInfo{Size: PageSize, Count: total, Current: page},
	}, nil
}

func (s *Service) CanRate(ctx context.Context, dishID, userID uuid.UUID) (bool, error) {
	if _, err := s.Get(ctx, dishID); err != nil {
		return false, err
	}
	return s.history.HasOrderedDish(ctx, userID, dishID)
}

func (s *Service) Rate(ctx context.Context, dishID, userID uuid.UUID, score float64) error {
	if math.IsNaN(score) || score < MinRating || score > MaxRating {
		s.logger.Warn("rating out of range",
			zap.String("dish_id", dishID.String()),
			zap.Float64("score", score))
		return fmt.Errorf("%w: rating score must be between %v and %v", apperr.ErrInvalidRequest, MinRating, MaxRating)
	}
	if _, err := s.Get(ctx, dishID); err != nil {
		return err
	}
	if err := s.repo.SetRating(ctx, dishID, score); err != nil {
		return err
	}
	s.logger.Info("dish rated",
		zap.String("dish_id", dishID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("score", score))
	return nil
}
