package recipes

import (
	"fmt"
	"strings"
)

// Machine-readable codes reported in GraphQL error extensions.
const (
	CodeBadUserInput = "BAD_USER_INPUT"
	CodeDuplicateKey = "DUPLICATE_KEY"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidID    = "INVALID_ID"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

type Violation struct {
	Field   string
	Message string
}

// ValidationError lists every rule the input broke, not just the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return "Recipe validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Extensions() map[string]interface{} {
	fields := make(map[string]interface{}, len(e.Violations))
	for _, v := range e.Violations {
		fields[v.Field] = v.Message
	}
	return map[string]interface{}{
		"code":   CodeBadUserInput,
		"fields": fields,
	}
}

type DuplicateKeyError struct {
	Slug string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("E11000 duplicate key error: a recipe with slug %q already exists", e.Slug)
}

func (e *DuplicateKeyError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": CodeDuplicateKey, "slug": e.Slug}
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "Recipe not found"
}

func (e *NotFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": CodeNotFound, "id": e.ID}
}

type MalformedIDError struct {
	ID string
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("invalid recipe id %q: expected a 24 character hex string", e.ID)
}

func (e *MalformedIDError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": CodeInvalidID}
}
