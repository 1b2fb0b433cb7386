package db

import (
	"context"
	"time"

	"cookbook/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ RecipeStore = (*MongoRecipeStore)(nil)

type MongoRecipeStore struct {
	coll *mongo.Collection
}

func NewMongoRecipeStore(coll *mongo.Collection) *MongoRecipeStore {
	return &MongoRecipeStore{coll: coll}
}

// EnsureIndexes creates the unique slug index. Safe to call on every start.
func (s *MongoRecipeStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("slug_unique"),
	})
	return errors.Wrap(err, "create slug index")
}

func (s *MongoRecipeStore) Insert(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	now := storeNow()
	recipe.ID = primitive.NewObjectID()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, recipe); err != nil {
		return models.Recipe{}, translate(err, "insert recipe")
	}
	return recipe, nil
}

// optionsFindNatural lists recipes in insertion order.
func optionsFindNatural() *options.FindOptions {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "$natural", Value: 1}})
	return opts
}

func (s *MongoRecipeStore) FindAll(ctx context.Context) ([]models.Recipe, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, optionsFindNatural())
	if err != nil {
		return nil, errors.Wrap(err, "find recipes")
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, errors.Wrap(err, "decode recipes")
	}

	if len(recipes) == 0 {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

func (s *MongoRecipeStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		return models.Recipe{}, translate(err, "find recipe")
	}
	return recipe, nil
}

func (s *MongoRecipeStore) UpdateByID(ctx context.Context, id primitive.ObjectID, patch models.RecipePatch) (models.Recipe, error) {
	updates := bson.M{"updatedAt": storeNow()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Cuisine != nil {
		updates["cuisine"] = *patch.Cuisine
	}
	if patch.PrepTimeMinutes != nil {
		updates["prepTimeMinutes"] = *patch.PrepTimeMinutes
	}
	if patch.Difficulty != nil {
		updates["difficulty"] = *patch.Difficulty
	}
	if patch.Slug != nil {
		updates["slug"] = *patch.Slug
	}
	if patch.Ingredients != nil {
		updates["ingredients"] = *patch.Ingredients
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var recipe models.Recipe
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": updates}, opts).Decode(&recipe)
	if err != nil {
		return models.Recipe{}, translate(err, "update recipe")
	}
	return recipe, nil
}

func (s *MongoRecipeStore) DeleteByID(ctx context.Context, id primitive.ObjectID) (models.Recipe, error) {
	var recipe models.Recipe
	err := s.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&recipe)
	if err != nil {
		return models.Recipe{}, translate(err, "delete recipe")
	}
	return recipe, nil
}

// translate maps driver errors onto the store sentinels.
func translate(err error, op string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return errors.Wrap(ErrNotFound, op)
	case mongo.IsDuplicateKeyError(err):
		return errors.Wrapf(ErrDuplicateKey, "%s: %v", op, err)
	default:
		return errors.Wrap(err, op)
	}
}

// storeNow matches the millisecond precision of BSON dates.
func storeNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
