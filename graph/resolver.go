package graph

import (
	"context"
	"time"

	"cookbook/models"
	"cookbook/recipes"

	"github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
)

// Resolver is the root resolver. It only translates between GraphQL
// arguments and recipes.Service calls.
type Resolver struct {
	svc *recipes.Service
}

type createRecipeInput struct {
	Title           string
	Cuisine         string
	PrepTimeMinutes int32
	Difficulty      string
	Slug            string
	Ingredients     []string
}

// updateRecipeInput uses the Null* types so an explicit null can be told
// apart from an omitted field.
type updateRecipeInput struct {
	Title           graphql.NullString
	Cuisine         graphql.NullString
	PrepTimeMinutes graphql.NullInt
	Difficulty      graphql.NullString
	Slug            graphql.NullString
	Ingredients     nullStringList
}

// nullStringList is the [String!] counterpart of graphql.NullString.
type nullStringList struct {
	Value *[]string
	Set   bool
}

func (nullStringList) ImplementsGraphQLType(name string) bool {
	return name == "[String!]"
}

func (l *nullStringList) UnmarshalGraphQL(input interface{}) error {
	l.Set = true

	var items []interface{}
	switch v := input.(type) {
	case nil:
		return nil
	case []interface{}:
		items = v
	case []string:
		out := append([]string{}, v...)
		l.Value = &out
		return nil
	default:
		// A single value is coerced to a one-element list.
		items = []interface{}{v}
	}

	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return errors.Errorf("wrong type for String: %T", item)
		}
		out[i] = s
	}
	l.Value = &out
	return nil
}

func (l *nullStringList) Nullable() {}

func (in updateRecipeInput) patch() models.RecipePatch {
	var p models.RecipePatch
	str := func(field string, v graphql.NullString) *string {
		if v.Set && v.Value == nil {
			p.Nulled = append(p.Nulled, field)
		}
		return v.Value
	}
	p.Title = str("title", in.Title)
	p.Cuisine = str("cuisine", in.Cuisine)
	if in.PrepTimeMinutes.Value != nil {
		prep := int(*in.PrepTimeMinutes.Value)
		p.PrepTimeMinutes = &prep
	} else if in.PrepTimeMinutes.Set {
		p.Nulled = append(p.Nulled, "prepTimeMinutes")
	}
	p.Difficulty = str("difficulty", in.Difficulty)
	p.Slug = str("slug", in.Slug)
	if in.Ingredients.Value != nil {
		p.Ingredients = in.Ingredients.Value
	} else if in.Ingredients.Set {
		p.Nulled = append(p.Nulled, "ingredients")
	}
	return p
}

func (r *Resolver) Recipes(ctx context.Context) ([]*recipeResolver, error) {
	list, err := r.svc.ListRecipes(ctx)
	if err != nil {
		return nil, resolverError(err)
	}

	out := make([]*recipeResolver, len(list))
	for i := range list {
		out[i] = &recipeResolver{recipe: list[i]}
	}
	return out, nil
}

func (r *Resolver) Recipe(ctx context.Context, args struct{ ID graphql.ID }) (*recipeResolver, error) {
	recipe, err := r.svc.GetRecipe(ctx, string(args.ID))
	if err != nil {
		return nil, resolverError(err)
	}
	return wrap(recipe), nil
}

func (r *Resolver) CreateRecipe(ctx context.Context, args struct{ Input createRecipeInput }) (*recipeResolver, error) {
	in := args.Input
	recipe, err := r.svc.CreateRecipe(ctx, models.RecipeInput{
		Title:           in.Title,
		Cuisine:         in.Cuisine,
		PrepTimeMinutes: int(in.PrepTimeMinutes),
		Difficulty:      in.Difficulty,
		Slug:            in.Slug,
		Ingredients:     in.Ingredients,
	})
	if err != nil {
		return nil, resolverError(err)
	}
	return wrap(recipe), nil
}

func (r *Resolver) UpdateRecipe(ctx context.Context, args struct {
	ID    graphql.ID
	Input updateRecipeInput
}) (*recipeResolver, error) {
	recipe, err := r.svc.UpdateRecipe(ctx, string(args.ID), args.Input.patch())
	if err != nil {
		return nil, resolverError(err)
	}
	return wrap(recipe), nil
}

func (r *Resolver) DeleteRecipe(ctx context.Context, args struct{ ID graphql.ID }) (*recipeResolver, error) {
	recipe, err := r.svc.DeleteRecipe(ctx, string(args.ID))
	if err != nil {
		return nil, resolverError(err)
	}
	return wrap(recipe), nil
}

func wrap(recipe *models.Recipe) *recipeResolver {
	if recipe == nil {
		return nil
	}
	return &recipeResolver{recipe: *recipe}
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type recipeResolver struct {
	recipe models.Recipe
}

func (r *recipeResolver) ID() graphql.ID {
	return graphql.ID(r.recipe.ID.Hex())
}

func (r *recipeResolver) Title() string {
	return r.recipe.Title
}

func (r *recipeResolver) Cuisine() string {
	return r.recipe.Cuisine
}

func (r *recipeResolver) PrepTimeMinutes() int32 {
	return int32(r.recipe.PrepTimeMinutes)
}

func (r *recipeResolver) Difficulty() string {
	return string(r.recipe.Difficulty)
}

func (r *recipeResolver) Slug() string {
	return r.recipe.Slug
}

func (r *recipeResolver) Ingredients() []string {
	if r.recipe.Ingredients == nil {
		return []string{}
	}
	return r.recipe.Ingredients
}

func (r *recipeResolver) CreatedAt() string {
	return formatTime(r.recipe.CreatedAt)
}

func (r *recipeResolver) UpdatedAt() string {
	return formatTime(r.recipe.UpdatedAt)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// extendedError is what graphql-go copies into the "extensions" member.
type extendedError interface {
	error
	Extensions() map[string]interface{}
}

type internalError struct {
	cause error
}

func (e *internalError) Error() string {
	return "internal server error"
}

func (e *internalError) Unwrap() error {
	return e.cause
}

func (e *internalError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": recipes.CodeInternal}
}

// resolverError hands graphql-go an error that carries a code. The engine
// only looks at the returned value itself, so wrapped domain errors are
// unwrapped here.
func resolverError(err error) error {
	var ext extendedError
	if errors.As(err, &ext) {
		return ext
	}
	return &internalError{cause: err}
}
