package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxGene-Intelligence/internal/application/query"
)

// QueryHandler serves the interaction-query endpoint.
type QueryHandler struct {
	service query.Service
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(service query.Service) *QueryHandler {
	return &QueryHandler{service: service}
}

// Interactions handles POST /api/v1/interactions: resolve the submitted drug
// and gene names, fetch their interaction records, and return the ranked,
// budget-truncated result keyed by requested name.
func (h *QueryHandler) Interactions(c *gin.Context) {
	var input query.QueryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.service.Interactions(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

//Personal.AI order the ending
