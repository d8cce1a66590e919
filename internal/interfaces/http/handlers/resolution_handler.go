package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxGene-Intelligence/internal/application/resolution"
	"github.com/turtacn/RxGene-Intelligence/internal/domain/entity"
	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// ResolutionHandler serves the entity-resolution endpoints.
type ResolutionHandler struct {
	service resolution.Service
}

// NewResolutionHandler creates a ResolutionHandler.
func NewResolutionHandler(service resolution.Service) *ResolutionHandler {
	return &ResolutionHandler{service: service}
}

// Resolve handles POST /api/v1/resolve. Every submitted name gets a result:
// the canonical form when resolution succeeds, the raw input otherwise.
func (h *ResolutionHandler) Resolve(c *gin.Context) {
	var input resolution.ResolveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.service.ResolveNames(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// AliasStats handles GET /api/v1/aliases/:domain/stats. It reports the shape
// of a domain's alias index without exposing dictionary contents.
func (h *ResolutionHandler) AliasStats(c *gin.Context) {
	domain, err := parseDomain(c.Param("domain"))
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), domain)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, stats)
}

// parseDomain validates a path parameter against the known entity domains.
func parseDomain(raw string) (entity.Domain, error) {
	for _, d := range entity.AllDomains {
		if raw == string(d) {
			return d, nil
		}
	}
	return "", errors.New(errors.ErrCodeResolutionDomainUnknown,
		fmt.Sprintf("unknown entity domain %q", raw))
}

//Personal.AI order the ending
