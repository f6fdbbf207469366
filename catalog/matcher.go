package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/romuloroldao/Black-House-sub001/logger"
	"github.com/romuloroldao/Black-House-sub001/models"
)

// Containment caps for the similarity tier. A catalog name that contains the
// query may be up to 20 characters longer; the reverse direction is stricter
// because a short catalog name contained in a long query is usually too
// generic to be the right match.
const (
	maxContainsDiff    = 20
	maxContainedDiff   = 10
	minContainedLength = 5
)

// ErrTypeUnresolved is returned when a food would be inserted without a
// resolved category. It is fatal on purpose: a food without a type corrupts
// every downstream aggregation, so no default is ever substituted.
var ErrTypeUnresolved = errors.New("food type could not be resolved")

// FoodStore is the catalog persistence surface the matcher needs. A miss is
// (nil, nil); errors are reserved for real storage failures.
type FoodStore interface {
	FindByName(ctx context.Context, name string) (*models.Food, error)
	FindByNormalized(ctx context.Context, key string) (*models.Food, error)
	ListAll(ctx context.Context) ([]models.Food, error)
	SearchPartial(ctx context.Context, fragment string) (*models.Food, error)
	Create(ctx context.Context, food *models.Food) error
}

// Matcher resolves a free-text food name to a catalog row using an ordered
// strategy; creation is the last resort.
type Matcher struct {
	foods FoodStore
	types *TypeResolver
}

func NewMatcher(foods FoodStore, types *TypeResolver) *Matcher {
	return &Matcher{foods: foods, types: types}
}

// Resolve runs the tiers in order, each attempted only when the prior one
// found nothing:
//
//  1. exact match on the literal name as supplied
//  2. exact match on the normalized name
//  3. static alias table of colloquial variants
//  4. containment similarity over the full catalog
//  5. auto-creation with inferred category and macros
//
// The returned bool reports whether a new row was created.
func (m *Matcher) Resolve(ctx context.Context, name string, creatorID uint) (*models.Food, bool, error) {
	raw := name
	if food, err := m.foods.FindByName(ctx, raw); err != nil {
		return nil, false, err
	} else if food != nil {
		return food, false, nil
	}

	norm := NormalizeName(name)
	if norm == "" {
		return nil, false, fmt.Errorf("food name %q is empty after normalization", name)
	}
	if food, err := m.foods.FindByNormalized(ctx, norm); err != nil {
		return nil, false, err
	} else if food != nil {
		return food, false, nil
	}

	if target, ok := AliasFor(name); ok {
		if food, err := m.foods.FindByNormalized(ctx, NormalizeName(target)); err != nil {
			return nil, false, err
		} else if food != nil {
			logger.Debug("food resolved via alias", "query", name, "alias", target)
			return food, false, nil
		}
	}

	food, err := m.similarityMatch(ctx, norm)
	if err != nil {
		return nil, false, err
	}
	if food != nil {
		logger.Debug("food resolved via similarity", "query", name, "match", food.Name)
		return food, false, nil
	}

	created, err := m.autoCreate(ctx, name, norm, creatorID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// similarityMatch scans the catalog for containment candidates in both
// directions, preferring the smallest length difference. An exact normalized
// match found mid-scan short-circuits immediately.
func (m *Matcher) similarityMatch(ctx context.Context, norm string) (*models.Food, error) {
	foods, err := m.foods.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var best *models.Food
	bestDiff := maxContainsDiff + 1
	for i := range foods {
		candidate := foods[i].NormalizedName
		if candidate == "" {
			candidate = NormalizeName(foods[i].Name)
		}
		if candidate == norm {
			return &foods[i], nil
		}
		switch {
		case strings.Contains(candidate, norm):
			diff := len(candidate) - len(norm)
			if diff <= maxContainsDiff && diff < bestDiff {
				best = &foods[i]
				bestDiff = diff
			}
		case strings.Contains(norm, candidate) && len(candidate) >= minContainedLength:
			diff := len(norm) - len(candidate)
			if diff <= maxContainedDiff && diff < bestDiff {
				best = &foods[i]
				bestDiff = diff
			}
		}
	}
	return best, nil
}

// autoCreate inserts a new catalog row. Before inserting it re-checks for a
// near-duplicate by partial search, covering the race where a concurrent
// import created the row after our tiers missed.
func (m *Matcher) autoCreate(ctx context.Context, name, norm string, creatorID uint) (*models.Food, error) {
	if existing, err := m.foods.SearchPartial(ctx, norm); err != nil {
		return nil, err
	} else if existing != nil {
		logger.Debug("food found by partial re-check before create", "query", name, "match", existing.Name)
		return existing, nil
	}

	category := InferCategory(name)
	foodType, err := m.types.FindOrCreate(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("resolving category %q for food %q: %w", category, name, err)
	}
	if foodType == nil || foodType.ID == 0 {
		return nil, fmt.Errorf("food %q: %w", name, ErrTypeUnresolved)
	}

	profile := InferProfile(category)
	food := &models.Food{
		Name:           strings.TrimSpace(name),
		NormalizedName: norm,
		TypeID:         foodType.ID,
		ProteinOrigin:  InferProteinOrigin(name, category),
		PortionGrams:   100,
		Calories:       profile.Calories,
		Protein:        profile.Protein,
		Carbs:          profile.Carbs,
		Fat:            profile.Fat,
		Note:           "auto-created during diet import",
		CreatorID:      creatorID,
	}
	if err := m.foods.Create(ctx, food); err != nil {
		return nil, fmt.Errorf("creating food %q: %w", name, err)
	}
	logger.Info("food auto-created", "name", food.Name, "category", category, "food_id", food.ID)
	return food, nil
}
