package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the accepted values in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

type Recipe struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Cuisine         string             `bson:"cuisine" json:"cuisine"`
	PrepTimeMinutes int                `bson:"prepTimeMinutes" json:"prepTimeMinutes"`
	Difficulty      Difficulty         `bson:"difficulty" json:"difficulty"`
	Slug            string             `bson:"slug" json:"slug"`
	Ingredients     []string           `bson:"ingredients" json:"ingredients"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecipeInput carries every client-settable field of a new recipe.
type RecipeInput struct {
	Title           string
	Cuisine         string
	PrepTimeMinutes int
	Difficulty      string
	Slug            string
	Ingredients     []string
}

// RecipePatch is a partial update. Nil fields are left untouched.
// Nulled names the fields a client explicitly set to null; such a patch
// never reaches a store.
type RecipePatch struct {
	Title           *string
	Cuisine         *string
	PrepTimeMinutes *int
	Difficulty      *string
	Slug            *string
	Ingredients     *[]string
	Nulled          []string
}

// Apply copies the set fields of p onto r.
func (p RecipePatch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Cuisine != nil {
		r.Cuisine = *p.Cuisine
	}
	if p.PrepTimeMinutes != nil {
		r.PrepTimeMinutes = *p.PrepTimeMinutes
	}
	if p.Difficulty != nil {
		r.Difficulty = Difficulty(*p.Difficulty)
	}
	if p.Slug != nil {
		r.Slug = *p.Slug
	}
	if p.Ingredients != nil {
		r.Ingredients = append([]string(nil), (*p.Ingredients)...)
	}
}
