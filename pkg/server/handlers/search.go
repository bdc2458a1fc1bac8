package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	medgraph "github.com/soundprediction/medgraph"
	"github.com/soundprediction/medgraph/pkg/literature"
	"github.com/soundprediction/medgraph/pkg/server/dto"
)

// SearchHandler serves terminology and literature lookups plus query
// construction.
type SearchHandler struct {
	client *medgraph.Client
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(client *medgraph.Client) *SearchHandler {
	return &SearchHandler{client: client}
}

// SearchUMLS handles GET /api/v1/search/umls?term=...
func (h *SearchHandler) SearchUMLS(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, dto.Fail("term is required"))
		return
	}
	concepts, err := h.client.ResolveConcept(c.Request.Context(), term)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.Fail(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(concepts))
}

// GetConcept handles GET /api/v1/search/umls/:cui
func (h *SearchHandler) GetConcept(c *gin.Context) {
	concept, err := h.client.LookupConcept(c.Request.Context(), c.Param("cui"))
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.Fail(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(concept))
}

// SearchPubMed handles GET /api/v1/search/pubmed?query=...
func (h *SearchHandler) SearchPubMed(c *gin.Context) {
	q := c.Query("query")
	if q == "" {
		c.JSON(http.StatusBadRequest, dto.Fail("query is required"))
		return
	}

	opts := literature.SearchOptions{}
	if v := c.Query("max_results"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.MaxResults = n
		}
	}
	opts.FullTextOnly = c.Query("full_text_only") == "true"
	if start, end := c.Query("start_date"), c.Query("end_date"); start != "" || end != "" {
		opts.Dates = &literature.DateRange{Start: start, End: end}
	}

	articles, err := h.client.SearchLiterature(c.Request.Context(), q, opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.Fail(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(articles))
}

// BuildQuery handles POST /api/v1/query
func (h *SearchHandler) BuildQuery(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		return
	}

	result, err := h.client.BuildQuery(c.Request.Context(), req.Text, req.UseConcepts)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.Fail(err.Error()))
		return
	}
	c.JSON(http.StatusOK, dto.OK(result))
}
