package recipes

import (
	"context"

	"cookbook/db"
	"cookbook/models"
	"cookbook/utils"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Service enforces the recipe rules in front of a db.RecipeStore.
// Every error it returns is one of ValidationError, DuplicateKeyError,
// NotFoundError, MalformedIDError, or a wrapped store failure.
type Service struct {
	store db.RecipeStore
	log   *zap.Logger
}

func NewService(store db.RecipeStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, s.storeError(ctx, err, "list", "", "")
	}
	return recipes, nil
}

// GetRecipe returns nil without an error when no recipe has the id.
func (s *Service) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.store.FindByID(ctx, oid)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.storeError(ctx, err, "get", id, "")
	}
	return &recipe, nil
}

func (s *Service) CreateRecipe(ctx context.Context, input models.RecipeInput) (*models.Recipe, error) {
	input = normalizeInput(input)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	recipe, err := s.store.Insert(ctx, models.Recipe{
		Title:           input.Title,
		Cuisine:         input.Cuisine,
		PrepTimeMinutes: input.PrepTimeMinutes,
		Difficulty:      models.Difficulty(input.Difficulty),
		Slug:            input.Slug,
		Ingredients:     input.Ingredients,
	})
	if err != nil {
		return nil, s.storeError(ctx, err, "create", "", input.Slug)
	}

	utils.LoggerFromContext(ctx, s.log).Info("recipe created",
		zap.String("id", recipe.ID.Hex()),
		zap.String("slug", recipe.Slug))
	return &recipe, nil
}

// UpdateRecipe validates and writes only the fields set in patch.
func (s *Service) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch) (*models.Recipe, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	patch = normalizePatch(patch)
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var slug string
	if patch.Slug != nil {
		slug = *patch.Slug
	}

	recipe, err := s.store.UpdateByID(ctx, oid, patch)
	if err != nil {
		return nil, s.storeError(ctx, err, "update", id, slug)
	}

	utils.LoggerFromContext(ctx, s.log).Info("recipe updated", zap.String("id", id))
	return &recipe, nil
}

// DeleteRecipe returns the record as it was just before removal.
func (s *Service) DeleteRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	recipe, err := s.store.DeleteByID(ctx, oid)
	if err != nil {
		return nil, s.storeError(ctx, err, "delete", id, "")
	}

	utils.LoggerFromContext(ctx, s.log).Info("recipe deleted",
		zap.String("id", id),
		zap.String("slug", recipe.Slug))
	return &recipe, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &MalformedIDError{ID: id}
	}
	return oid, nil
}

// storeError converts store sentinels into the service taxonomy.
// Anything else is logged and passed up wrapped.
func (s *Service) storeError(ctx context.Context, err error, op, id, slug string) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return &NotFoundError{ID: id}
	case errors.Is(err, db.ErrDuplicateKey):
		return &DuplicateKeyError{Slug: slug}
	}

	utils.LoggerFromContext(ctx, s.log).Error("recipe store failure",
		zap.String("op", op),
		zap.String("id", id),
		zap.Error(err))
	return errors.WithMessagef(err, "%s recipe", op)
}
