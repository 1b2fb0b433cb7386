package db

import (
	"context"
	"sync"

	"cookbook/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ RecipeStore = (*MemoryRecipeStore)(nil)

// MemoryRecipeStore keeps recipes in process memory. It enforces the same
// slug uniqueness as the unique index on the Mongo collection and lists
// records in insertion order.
type MemoryRecipeStore struct {
	mu     sync.RWMutex
	order  []primitive.ObjectID
	byID   map[primitive.ObjectID]models.Recipe
	bySlug map[string]primitive.ObjectID
}

func NewMemoryRecipeStore() *MemoryRecipeStore {
	return &MemoryRecipeStore{
		byID:   make(map[primitive.ObjectID]models.Recipe),
		bySlug: make(map[string]primitive.ObjectID),
	}
}

func (s *MemoryRecipeStore) Insert(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.bySlug[recipe.Slug]; taken {
		return models.Recipe{}, ErrDuplicateKey
	}

	now := storeNow()
	recipe.ID = primitive.NewObjectID()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now
	recipe.Ingredients = cloneStrings(recipe.Ingredients)

	s.byID[recipe.ID] = recipe
	s.bySlug[recipe.Slug] = recipe.ID
	s.order = append(s.order, recipe.ID)

	return copyRecipe(recipe), nil
}

func (s *MemoryRecipeStore) FindAll(ctx context.Context) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipes := make([]models.Recipe, 0, len(s.order))
	for _, id := range s.order {
		recipes = append(recipes, copyRecipe(s.byID[id]))
	}
	return recipes, nil
}

func (s *MemoryRecipeStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, ok := s.byID[id]
	if !ok {
		return models.Recipe{}, ErrNotFound
	}
	return copyRecipe(recipe), nil
}

func (s *MemoryRecipeStore) UpdateByID(ctx context.Context, id primitive.ObjectID, patch models.RecipePatch) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.byID[id]
	if !ok {
		return models.Recipe{}, ErrNotFound
	}

	oldSlug := recipe.Slug
	if patch.Slug != nil && *patch.Slug != oldSlug {
		if _, taken := s.bySlug[*patch.Slug]; taken {
			return models.Recipe{}, ErrDuplicateKey
		}
	}

	patch.Apply(&recipe)
	recipe.UpdatedAt = storeNow()

	if recipe.Slug != oldSlug {
		delete(s.bySlug, oldSlug)
		s.bySlug[recipe.Slug] = id
	}
	s.byID[id] = recipe

	return copyRecipe(recipe), nil
}

func (s *MemoryRecipeStore) DeleteByID(ctx context.Context, id primitive.ObjectID) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.byID[id]
	if !ok {
		return models.Recipe{}, ErrNotFound
	}

	delete(s.byID, id)
	delete(s.bySlug, recipe.Slug)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return recipe, nil
}

func copyRecipe(r models.Recipe) models.Recipe {
	r.Ingredients = cloneStrings(r.Ingredients)
	return r
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
