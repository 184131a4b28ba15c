package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PatQuery-Bridge/internal/application/query"
	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// QueryHandler exposes the query-builder operations over HTTP.
type QueryHandler struct {
	svc query.Service
}

// NewQueryHandler builds the handler around the application service.
func NewQueryHandler(svc query.Service) *QueryHandler {
	return &QueryHandler{svc: svc}
}

// Generate handles POST /api/v1/query/generate: structured conditions in,
// dialect query string and search URL out.
func (h *QueryHandler) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Parse handles POST /api/v1/query/parse: a raw query string in, recovered
// builder state out.
func (h *QueryHandler) Parse(c *gin.Context) {
	var req types.ParseRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Parse(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Convert handles POST /api/v1/query/convert: best-effort translation of a
// query string from one dialect to the other.
func (h *QueryHandler) Convert(c *gin.Context) {
	var req types.ConvertRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Convert(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DetectRequest is the body of POST /api/v1/query/detect.
type DetectRequest struct {
	QueryString string `json:"query_string"`
}

// Detect handles POST /api/v1/query/detect: guesses which dialect a raw
// string belongs to.  Inconclusive input yields "unknown", not an error.
func (h *QueryHandler) Detect(c *gin.Context) {
	var req DetectRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Detect(c.Request.Context(), req.QueryString)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

//Personal.AI order the ending
