package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/romuloroldao/Black-House-sub001/logger"
	"github.com/romuloroldao/Black-House-sub001/models"
)

// TypeStore is the food-type persistence surface. FindByName compares
// case-insensitively; a miss is (nil, nil).
type TypeStore interface {
	FindByName(ctx context.Context, name string) (*models.FoodType, error)
	Create(ctx context.Context, ft *models.FoodType) error
}

// TypeResolver guarantees every food references a valid category row.
type TypeResolver struct {
	types TypeStore
}

func NewTypeResolver(types TypeStore) *TypeResolver {
	return &TypeResolver{types: types}
}

// FindOrCreate performs lookup-then-insert. When the insert loses a race to a
// concurrent writer (uniqueness conflict), it re-queries and returns the
// winner instead of raising — catalog inserts are rare compared to reads, and
// blocking concurrent imports on a lock is not acceptable.
func (r *TypeResolver) FindOrCreate(ctx context.Context, name string) (*models.FoodType, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("food type name must not be empty: %w", ErrTypeUnresolved)
	}

	ft, err := r.types.FindByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if ft != nil {
		return ft, nil
	}

	candidate := &models.FoodType{Name: trimmed}
	createErr := r.types.Create(ctx, candidate)
	if createErr == nil {
		logger.Info("food type created", "name", trimmed, "type_id", candidate.ID)
		return candidate, nil
	}

	// A concurrent insert may have won; the re-query decides.
	winner, err := r.types.FindByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if winner != nil {
		logger.Debug("food type insert lost race, reusing winner", "name", trimmed, "type_id", winner.ID)
		return winner, nil
	}
	return nil, fmt.Errorf("creating food type %q: %w", trimmed, createErr)
}
