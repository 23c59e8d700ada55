package graphql

import (
	"github.com/graphql-go/graphql"

	"todopro/internal/core/domain"
	"todopro/internal/core/port"
	"todopro/pkg/db/cursor"
)

// Schema is the read-oriented query surface: a cursor-paginated
// connection over every todo in the store plus a createUser mutation.
// It is authored by hand so the public surface never shifts with the
// storage schema.
type Schema struct {
	schema graphql.Schema
}

func NewSchema(todos port.TodoService, users port.UserService) (*Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"username": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	todoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Todo",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"title":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.Field{Type: graphql.String},
			"time":        &graphql.Field{Type: graphql.String},
			"images":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"userId":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"endCursor":   &graphql.Field{Type: graphql.String},
		},
	})

	todoEdgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TodoEdge",
		Fields: graphql.Fields{
			"node":   &graphql.Field{Type: todoType},
			"cursor": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	todoConnectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TodoConnection",
		Fields: graphql.Fields{
			"edges":    &graphql.Field{Type: graphql.NewList(todoEdgeType)},
			"pageInfo": &graphql.Field{Type: graphql.NewNonNull(pageInfoType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"allTodos": &graphql.Field{
				Type:        todoConnectionType,
				Description: "Every todo in the store, id ascending, regardless of owner.",
				Args: graphql.FieldConfigArgument{
					"first": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 10,
					},
					"after": &graphql.ArgumentConfig{
						Type: graphql.String,
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					first, _ := p.Args["first"].(int)

					if first <= 0 {
						first = 10
					}

					after, _ := p.Args["after"].(string)

					rows, hasNext, err := todos.ListWithCursor(p.Context, first, after)

					if err != nil {
						return nil, err
					}

					edges := make([]map[string]interface{}, 0, len(rows))
					endCursor := ""

					for _, todo := range rows {
						token := cursor.EncodeCursor(todo.ID)
						endCursor = token

						edges = append(edges, map[string]interface{}{
							"node":   todoToNode(todo),
							"cursor": token,
						})
					}

					return map[string]interface{}{
						"edges": edges,
						"pageInfo": map[string]interface{}{
							"hasNextPage": hasNext,
							"endCursor":   endCursor,
						},
					}, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
					"password": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					username, _ := p.Args["username"].(string)
					password, _ := p.Args["password"].(string)

					user, err := users.Register(p.Context, username, password)

					if err != nil {
						return nil, err
					}

					return map[string]interface{}{
						"id":       user.ID,
						"username": user.Username,
					}, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})

	if err != nil {
		return nil, err
	}

	return &Schema{schema: schema}, nil
}

func todoToNode(todo domain.Todo) map[string]interface{} {
	return map[string]interface{}{
		"id":          todo.ID,
		"title":       todo.Title,
		"description": todo.Description,
		"time":        todo.Time,
		"images":      todo.Images,
		"userId":      todo.UserID,
	}
}
