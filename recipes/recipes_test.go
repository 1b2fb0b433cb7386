package recipes

import (
	"context"
	"strings"
	"testing"

	"cookbook/db"
	"cookbook/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestService() (*Service, *db.MemoryRecipeStore) {
	store := db.NewMemoryRecipeStore()
	return NewService(store, zap.NewNop()), store
}

func tacos() models.RecipeInput {
	return models.RecipeInput{
		Title:           "Tacos",
		Cuisine:         "Mexican",
		PrepTimeMinutes: 25,
		Difficulty:      "Easy",
		Slug:            "tacos-1",
		Ingredients:     []string{"tortillas", "beef"},
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateRecipe_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.False(t, created.ID.IsZero(), "expected generated id")
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.GetRecipe(ctx, created.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Tacos", got.Title)
	assert.Equal(t, "Mexican", got.Cuisine)
	assert.Equal(t, 25, got.PrepTimeMinutes)
	assert.Equal(t, models.DifficultyEasy, got.Difficulty)
	assert.Equal(t, "tacos-1", got.Slug)
	assert.Equal(t, []string{"tortillas", "beef"}, got.Ingredients)
}

func TestCreateRecipe_NormalizesInput(t *testing.T) {
	svc, _ := newTestService()

	in := tacos()
	in.Title = "  Tacos  "
	in.Slug = " Tacos-AL-Pastor "
	in.Ingredients = []string{" tortillas ", "pork"}

	created, err := svc.CreateRecipe(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Tacos", created.Title)
	assert.Equal(t, "tacos-al-pastor", created.Slug)
	assert.Equal(t, []string{"tortillas", "pork"}, created.Ingredients)
}

func TestCreateRecipe_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService()

	_, err := svc.CreateRecipe(ctx, models.RecipeInput{
		Title:           "Pi",
		Cuisine:         "",
		PrepTimeMinutes: 0,
		Difficulty:      "Impossible",
		Slug:            "bad-1",
		Ingredients:     []string{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"cuisine", "prepTimeMinutes", "difficulty", "ingredients"}, fields)
	assert.Equal(t, CodeBadUserInput, verr.Extensions()["code"])

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "invalid input must not create a record")
}

func TestCreateRecipe_EachRule(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*models.RecipeInput)
		field string
	}{
		{"blank title", func(in *models.RecipeInput) { in.Title = "   " }, "title"},
		{"blank cuisine", func(in *models.RecipeInput) { in.Cuisine = "" }, "cuisine"},
		{"zero prep time", func(in *models.RecipeInput) { in.PrepTimeMinutes = 0 }, "prepTimeMinutes"},
		{"negative prep time", func(in *models.RecipeInput) { in.PrepTimeMinutes = -5 }, "prepTimeMinutes"},
		{"lowercase difficulty", func(in *models.RecipeInput) { in.Difficulty = "easy" }, "difficulty"},
		{"blank slug", func(in *models.RecipeInput) { in.Slug = " " }, "slug"},
		{"nil ingredients", func(in *models.RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"blank ingredient", func(in *models.RecipeInput) { in.Ingredients = []string{"beef", " "} }, "ingredients.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			in := tacos()
			tt.edit(&in)

			_, err := svc.CreateRecipe(context.Background(), in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.Len(t, verr.Violations, 1)
			assert.Equal(t, tt.field, verr.Violations[0].Field)
		})
	}
}

func TestCreateRecipe_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	again := tacos()
	again.Title = "Tacos Copy"
	again.Slug = "TACOS-1"

	_, err = svc.CreateRecipe(ctx, again)
	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup), "got %v", err)
	assert.Regexp(t, `(?i)duplicate key|E11000`, err.Error())
	assert.Equal(t, "tacos-1", dup.Slug)
}

func TestGetRecipe_Absent(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.GetRecipe(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMalformedID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.GetRecipe(ctx, "not-an-id")
	var merr *MalformedIDError
	assert.True(t, errors.As(err, &merr))

	_, err = svc.UpdateRecipe(ctx, "123", models.RecipePatch{Title: strPtr("x")})
	assert.True(t, errors.As(err, &merr))

	_, err = svc.DeleteRecipe(ctx, "")
	assert.True(t, errors.As(err, &merr))
}

func TestUpdateRecipe_Partial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(ctx, created.ID.Hex(), models.RecipePatch{
		Title:           strPtr("Fish Tacos"),
		PrepTimeMinutes: intPtr(30),
		Difficulty:      strPtr("Medium"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Fish Tacos", updated.Title)
	assert.Equal(t, 30, updated.PrepTimeMinutes)
	assert.Equal(t, models.DifficultyMedium, updated.Difficulty)

	assert.Equal(t, created.Cuisine, updated.Cuisine)
	assert.Equal(t, created.Slug, updated.Slug)
	assert.Equal(t, created.Ingredients, updated.Ingredients)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateRecipe_ValidatesOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	_, err = svc.UpdateRecipe(ctx, created.ID.Hex(), models.RecipePatch{
		Ingredients: &[]string{},
		Difficulty:  strPtr("Extreme"),
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Violations, 2)

	got, err := svc.GetRecipe(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Ingredients, got.Ingredients, "rejected update must not be applied")
}

func TestUpdateRecipe_ExplicitNull(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	_, err = svc.UpdateRecipe(ctx, created.ID.Hex(), models.RecipePatch{
		Cuisine: strPtr("Tex-Mex"),
		Nulled:  []string{"title", "prepTimeMinutes", "ingredients"},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, err.Error(), "Recipe validation failed")
	assert.Contains(t, err.Error(), "title: must not be null")
	assert.Equal(t, CodeBadUserInput, verr.Extensions()["code"])

	fields := make([]string, len(verr.Violations))
	for i, v := range verr.Violations {
		fields[i] = v.Field
	}
	assert.ElementsMatch(t, []string{"title", "prepTimeMinutes", "ingredients"}, fields)

	got, err := svc.GetRecipe(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Cuisine, got.Cuisine, "rejected update must not be applied")
}

func TestUpdateRecipe_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateRecipe(context.Background(), "64f8f10f2c77f4c2ec09a999", models.RecipePatch{
		Title: strPtr("Missing update target"),
	})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	assert.Contains(t, err.Error(), "Recipe not found")
	assert.Equal(t, CodeNotFound, nf.Extensions()["code"])
}

func TestUpdateRecipe_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	other := tacos()
	other.Slug = "burrito"
	second, err := svc.CreateRecipe(ctx, other)
	require.NoError(t, err)

	_, err = svc.UpdateRecipe(ctx, second.ID.Hex(), models.RecipePatch{Slug: strPtr("Tacos-1")})
	var dup *DuplicateKeyError
	assert.True(t, errors.As(err, &dup), "got %v", err)
}

func TestDeleteRecipe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	created, err := svc.CreateRecipe(ctx, tacos())
	require.NoError(t, err)

	deleted, err := svc.DeleteRecipe(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, *created, *deleted, "delete returns the pre-deletion snapshot")

	got, err := svc.GetRecipe(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.DeleteRecipe(ctx, created.ID.Hex())
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf), "second delete must report NOT_FOUND, got %v", err)

	// slug is free again once the record is gone
	_, err = svc.CreateRecipe(ctx, tacos())
	assert.NoError(t, err)
}

func TestListRecipes_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	for _, slug := range []string{"a", "b", "c"} {
		in := tacos()
		in.Slug = slug
		_, err := svc.CreateRecipe(ctx, in)
		require.NoError(t, err)
	}

	list, err := svc.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Slug)
	assert.Equal(t, "c", list[2].Slug)
}

// failingStore returns err from every call.
type failingStore struct {
	err error
}

var _ db.RecipeStore = failingStore{}

func (f failingStore) Insert(context.Context, models.Recipe) (models.Recipe, error) {
	return models.Recipe{}, f.err
}

func (f failingStore) FindAll(context.Context) ([]models.Recipe, error) { return nil, f.err }

func (f failingStore) FindByID(context.Context, primitive.ObjectID) (models.Recipe, error) {
	return models.Recipe{}, f.err
}

func (f failingStore) UpdateByID(context.Context, primitive.ObjectID, models.RecipePatch) (models.Recipe, error) {
	return models.Recipe{}, f.err
}

func (f failingStore) DeleteByID(context.Context, primitive.ObjectID) (models.Recipe, error) {
	return models.Recipe{}, f.err
}

func TestStoreFailuresAreSurfaced(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	svc := NewService(failingStore{err: boom}, nil)

	_, err := svc.ListRecipes(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	_, err = svc.CreateRecipe(ctx, tacos())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, strings.HasPrefix(err.Error(), "create recipe"))

	_, err = svc.GetRecipe(ctx, primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, boom))
}

func TestWrappedStoreSentinelsAreMapped(t *testing.T) {
	svc := NewService(failingStore{err: errors.Wrap(db.ErrDuplicateKey, "insert recipe")}, nil)

	_, err := svc.CreateRecipe(context.Background(), tacos())
	var dup *DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
}
