package graph

import (
	"context"

	"cookbook/recipes"

	"github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"
)

// Schema is the public GraphQL contract. Both id and _id resolve to the
// store-generated identifier.
const Schema = `
	schema {
		query: Query
		mutation: Mutation
	}

	type Recipe {
		id: ID!
		_id: ID!
		title: String!
		cuisine: String!
		prepTimeMinutes: Int!
		difficulty: String!
		slug: String!
		ingredients: [String!]!
		createdAt: String!
		updatedAt: String!
	}

	input CreateRecipeInput {
		title: String!
		cuisine: String!
		prepTimeMinutes: Int!
		difficulty: String!
		slug: String!
		ingredients: [String!]!
	}

	input UpdateRecipeInput {
		title: String
		cuisine: String
		prepTimeMinutes: Int
		difficulty: String
		slug: String
		ingredients: [String!]
	}

	type Query {
		recipes: [Recipe!]!
		recipe(id: ID!): Recipe
	}

	type Mutation {
		createRecipe(input: CreateRecipeInput!): Recipe!
		updateRecipe(id: ID!, input: UpdateRecipeInput!): Recipe
		deleteRecipe(id: ID!): Recipe
	}
`

const maxQueryDepth = 8

func NewSchema(svc *recipes.Service, log *zap.Logger) (*graphql.Schema, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return graphql.ParseSchema(Schema, &Resolver{svc: svc},
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{log: log}),
	)
}

type panicLogger struct {
	log *zap.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Error("graphql resolver panic", zap.Any("panic", value), zap.Stack("stack"))
}
