package db

import (
	"context"

	"cookbook/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no live record has the requested id.
	ErrNotFound = errors.New("recipe not found in store")
	// ErrDuplicateKey is returned when a write would break slug uniqueness.
	ErrDuplicateKey = errors.New("duplicate slug")
)

// RecipeStore persists recipes and enforces slug uniqueness.
// Implementations set ID and timestamps themselves.
type RecipeStore interface {
	Insert(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
	FindAll(ctx context.Context) ([]models.Recipe, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Recipe, error)
	// UpdateByID applies patch and returns the record as it is after the write.
	UpdateByID(ctx context.Context, id primitive.ObjectID, patch models.RecipePatch) (models.Recipe, error)
	// DeleteByID removes the record and returns it as it was before removal.
	DeleteByID(ctx context.Context, id primitive.ObjectID) (models.Recipe, error)
}
