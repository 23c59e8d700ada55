package graphql

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"

	"todopro/internal/adapter/http/helper"
)

type graphqlRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler executes GraphQL documents posted as JSON. Auth is enforced at
// the transport: the route sits behind the JWT middleware.
type Handler struct {
	schema *Schema
}

func NewHandler(schema *Schema) *Handler {
	return &Handler{schema: schema}
}

func (h *Handler) Serve(c *gin.Context) {
	var req graphqlRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		helper.SendBadRequestError(c, "Invalid GraphQL request body")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})

	c.JSON(http.StatusOK, result)
}
