package application

import (
	"context"
	"errors"

	"github.com/Lecon-a/Coffee-Shop/internal/domain"
	apperrors "github.com/Lecon-a/Coffee-Shop/internal/domain/errors"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Messages rendered for drink errors
const (
	MsgDrinkExists   = "Drink already exist"
	MsgDrinkNotFound = "resource not found"
	MsgInternal      = "internal server error"
)

type DrinkService struct {
	repo   domain.DrinkRepository
	logger *zap.Logger
}

func NewDrinkService(repo domain.DrinkRepository, logger *zap.Logger) *DrinkService {
	return &DrinkService{
		repo:   repo,
		logger: logger,
	}
}

// ListDrinks returns the whole catalog
func (s *DrinkService) ListDrinks(ctx context.Context) ([]*domain.Drink, error) {
	drinks, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.mapError("list drinks", err)
	}
	return drinks, nil
}

// CreateDrink adds a drink; titles are unique
func (s *DrinkService) CreateDrink(ctx context.Context, title string, recipe []domain.Ingredient) (*domain.Drink, error) {
	exists, err := s.repo.ExistsByTitle(ctx, title)
	if err != nil {
		return nil, s.mapError("check drink title", err)
	}
	if exists {
		return nil, apperrors.NewConflictError(MsgDrinkExists)
	}

	drink := domain.NewDrink(title, recipe)
	if err := s.repo.Create(ctx, drink); err != nil {
		return nil, s.mapError("create drink", err)
	}

	s.logger.Info("Drink created", zap.String("id", drink.ID.String()), zap.String("title", drink.Title))
	return drink, nil
}

// UpdateDrink applies a partial update to an existing drink
func (s *DrinkService) UpdateDrink(ctx context.Context, id ulid.ULID, update domain.DrinkUpdate) (*domain.Drink, error) {
	drink, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError("find drink", err)
	}

	if update.Title != nil && *update.Title != drink.Title {
		exists, err := s.repo.ExistsByTitle(ctx, *update.Title)
		if err != nil {
			return nil, s.mapError("check drink title", err)
		}
		if exists {
			return nil, apperrors.NewConflictError(MsgDrinkExists)
		}
	}

	update.Apply(drink)
	if err := s.repo.Update(ctx, drink); err != nil {
		return nil, s.mapError("update drink", err)
	}

	s.logger.Info("Drink updated", zap.String("id", drink.ID.String()))
	return drink, nil
}

// DeleteDrink removes a drink
func (s *DrinkService) DeleteDrink(ctx context.Context, id ulid.ULID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("delete drink", err)
	}

	s.logger.Info("Drink deleted", zap.String("id", id.String()))
	return nil
}

func (s *DrinkService) mapError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrDrinkNotFound):
		return apperrors.NewNotFoundError(MsgDrinkNotFound)
	case errors.Is(err, domain.ErrDrinkExists):
		return apperrors.NewConflictError(MsgDrinkExists)
	default:
		s.logger.Error("Failed to "+op, zap.Error(err))
		return apperrors.NewInternalError(MsgInternal, err)
	}
}

var _ domain.DrinkService = (*DrinkService)(nil)
