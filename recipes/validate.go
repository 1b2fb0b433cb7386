package recipes

import (
	"fmt"
	"strings"

	"cookbook/models"
)

type violations []Violation

func (v *violations) add(field, format string, args ...interface{}) {
	*v = append(*v, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Violations: v}
}

func (v *violations) text(field, value string) {
	if value == "" {
		v.add(field, "must not be empty")
	}
}

func (v *violations) prepTime(value int) {
	if value <= 0 {
		v.add("prepTimeMinutes", "must be greater than 0")
	}
}

func (v *violations) difficulty(value string) {
	if !models.Difficulty(value).Valid() {
		names := make([]string, len(models.Difficulties))
		for i, d := range models.Difficulties {
			names[i] = string(d)
		}
		v.add("difficulty", "must be one of %s, got %q", strings.Join(names, ", "), value)
	}
}

func (v *violations) ingredients(values []string) {
	if len(values) == 0 {
		v.add("ingredients", "must contain at least one ingredient")
		return
	}
	for i, ing := range values {
		if ing == "" {
			v.add(fmt.Sprintf("ingredients.%d", i), "must not be empty")
		}
	}
}

func normalizeInput(in models.RecipeInput) models.RecipeInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Cuisine = strings.TrimSpace(in.Cuisine)
	in.Difficulty = strings.TrimSpace(in.Difficulty)
	in.Slug = normalizeSlug(in.Slug)
	in.Ingredients = trimAll(in.Ingredients)
	return in
}

func validateInput(in models.RecipeInput) error {
	var v violations
	v.text("title", in.Title)
	v.text("cuisine", in.Cuisine)
	v.prepTime(in.PrepTimeMinutes)
	v.difficulty(in.Difficulty)
	v.text("slug", in.Slug)
	v.ingredients(in.Ingredients)
	return v.err()
}

func normalizePatch(p models.RecipePatch) models.RecipePatch {
	p.Title = trimPtr(p.Title)
	p.Cuisine = trimPtr(p.Cuisine)
	p.Difficulty = trimPtr(p.Difficulty)
	if p.Slug != nil {
		s := normalizeSlug(*p.Slug)
		p.Slug = &s
	}
	if p.Ingredients != nil {
		ings := trimAll(*p.Ingredients)
		p.Ingredients = &ings
	}
	return p
}

// validatePatch checks only the fields present in p.
func validatePatch(p models.RecipePatch) error {
	var v violations
	for _, field := range p.Nulled {
		v.add(field, "must not be null")
	}
	if p.Title != nil {
		v.text("title", *p.Title)
	}
	if p.Cuisine != nil {
		v.text("cuisine", *p.Cuisine)
	}
	if p.PrepTimeMinutes != nil {
		v.prepTime(*p.PrepTimeMinutes)
	}
	if p.Difficulty != nil {
		v.difficulty(*p.Difficulty)
	}
	if p.Slug != nil {
		v.text("slug", *p.Slug)
	}
	if p.Ingredients != nil {
		v.ingredients(*p.Ingredients)
	}
	return v.err()
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
