package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/david/grants-agent/internal/agent"
	"github.com/david/grants-agent/internal/checkout"
	"github.com/david/grants-agent/internal/grantsgov"
	"github.com/david/grants-agent/internal/models"
	"github.com/david/grants-agent/internal/store"
)

type Server struct {
	Repo      store.Repository
	Grants    *grantsgov.Client
	Assembler *agent.Assembler
	Checkout  *checkout.Engine
	Echo      *echo.Echo
}

func NewServer(repo store.Repository, catalog *checkout.Catalog) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s := &Server{
		Repo:      repo,
		Grants:    grantsgov.NewClient(),
		Assembler: agent.NewAssembler(repo, catalog),
		Checkout:  checkout.NewEngine(catalog, repo),
		Echo:      e,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/healthz", s.handleHealth)

	api := s.Echo.Group("/api/grants")
	api.GET("/search", s.handleSearchGrants)
	api.GET("/:id", s.handleGetGrant)

	s.Echo.POST("/agent/grants", s.handleAgentGrants)

	s.Echo.GET("/user/:user_id", s.handleGetUser)
	s.Echo.GET("/user/:user_id/saved-searches", s.handleListSavedSearches)

	commerce := s.Echo.Group("/commerce")
	commerce.POST("/checkout_sessions", s.handleCheckoutCreate)
	commerce.POST("/checkout_sessions/:id", s.handleCheckoutUpdate)
	commerce.POST("/checkout_sessions/:id/complete", s.handleCheckoutComplete)
}

// writeError maps the error taxonomy onto HTTP statuses: validation and
// unknown-SKU errors are the client's fault, upstream failures surface as
// a bad gateway, anything else is a 500.
func writeError(c echo.Context, err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error(), "field": ve.Field})
	}
	var se *checkout.UnknownSKUError
	if errors.As(err, &se) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": se.Error()})
	}
	var ue *grantsgov.UpstreamError
	if errors.As(err, &ue) {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": ue.Error()})
	}
	c.Logger().Errorf("request failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"ok": true,
		"ts": time.Now().UTC().Format(time.RFC3339),
	})
}

// searchParamsFromQuery parses search parameters from the query string.
// The limit defaults only when the parameter is absent; supplied values
// are validated as-is, so an explicit limit=0 is rejected, never clamped.
func searchParamsFromQuery(c echo.Context) (models.SearchParams, error) {
	p := models.SearchParams{
		Keyword:     c.QueryParam("keyword"),
		State:       c.QueryParam("state"),
		Eligibility: c.QueryParam("eligibility"),
		SortBy:      c.QueryParam("sort_by"),
		Limit:       models.DefaultLimit,
	}
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, &models.ValidationError{Field: "limit", Message: "must be an integer"}
		}
		p.Limit = v
	}
	if raw := c.QueryParam("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, &models.ValidationError{Field: "offset", Message: "must be an integer"}
		}
		p.Offset = v
	}

	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// fetchNormalized runs one upstream search and normalizes every hit.
func (s *Server) fetchNormalized(c echo.Context, p models.SearchParams) ([]models.Grant, int, error) {
	env, err := s.Grants.Search(c.Request().Context(), p)
	if err != nil {
		return nil, 0, err
	}
	results := make([]models.Grant, 0, len(env.OppHits))
	for _, hit := range env.OppHits {
		results = append(results, agent.NormalizeHit(hit))
	}
	return results, env.Total(), nil
}

func (s *Server) handleSearchGrants(c echo.Context) error {
	p, err := searchParamsFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	results, total, err := s.fetchNormalized(c, p)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"source":  grantsgov.Source,
		"total":   total,
		"results": results,
	})
}

func (s *Server) handleGetGrant(c echo.Context) error {
	id := c.Param("id")
	detail, err := s.Grants.FetchDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// AgentRequest is the body of POST /agent/grants.
type AgentRequest struct {
	UserID     string              `json:"user_id"`
	Params     SearchParamsPayload `json:"params"`
	SaveSearch bool                `json:"save_search"`
}

// SearchParamsPayload mirrors models.SearchParams with a pointer limit so
// an omitted limit takes the default while an explicit 0 still reaches
// Validate and is rejected.
type SearchParamsPayload struct {
	Keyword     string `json:"keyword"`
	State       string `json:"state,omitempty"`
	Eligibility string `json:"eligibility,omitempty"`
	SortBy      string `json:"sort_by"`
	Limit       *int   `json:"limit"`
	Offset      int    `json:"offset"`
}

// ToParams resolves absent fields to their defaults.
func (p SearchParamsPayload) ToParams() models.SearchParams {
	sp := models.SearchParams{
		Keyword:     p.Keyword,
		State:       p.State,
		Eligibility: p.Eligibility,
		SortBy:      p.SortBy,
		Limit:       models.DefaultLimit,
		Offset:      p.Offset,
	}
	if p.Limit != nil {
		sp.Limit = *p.Limit
	}
	sp.ApplyDefaults()
	return sp
}

func (s *Server) handleAgentGrants(c echo.Context) error {
	var req AgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.UserID == "" {
		return writeError(c, &models.ValidationError{Field: "user_id", Message: "is required"})
	}

	params := req.Params.ToParams()
	if err := params.Validate(); err != nil {
		return writeError(c, err)
	}

	user, err := s.Repo.Ensure(c.Request().Context(), req.UserID)
	if err != nil {
		return writeError(c, err)
	}

	results, total, err := s.fetchNormalized(c, params)
	if err != nil {
		return writeError(c, err)
	}

	resp, err := s.Assembler.Assemble(c.Request().Context(), user, params, req.SaveSearch, results, total)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetUser(c echo.Context) error {
	user, err := s.Repo.Ensure(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (s *Server) handleListSavedSearches(c echo.Context) error {
	userID := c.Param("user_id")
	searches, err := s.Repo.SavedSearches(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	if searches == nil {
		searches = []models.SearchParams{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":        userID,
		"saved_searches": searches,
	})
}

// CheckoutCreateRequest is the body of the create and update endpoints.
type CheckoutCreateRequest struct {
	Items  []models.CheckoutItem `json:"items"`
	UserID string                `json:"user_id"`
}

// CompleteRequest is the body of the complete endpoint.
type CompleteRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleCheckoutCreate(c echo.Context) error {
	return s.buildCheckoutSession(c, "")
}

// Update recomputes pricing exactly like create but keeps the session's
// path identifier.
func (s *Server) handleCheckoutUpdate(c echo.Context) error {
	return s.buildCheckoutSession(c, c.Param("id"))
}

func (s *Server) buildCheckoutSession(c echo.Context, sessionID string) error {
	var req CheckoutCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	session, err := s.Checkout.BuildSession(sessionID, req.UserID, req.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleCheckoutComplete(c echo.Context) error {
	var req CompleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	ack, err := s.Checkout.Complete(c.Request().Context(), c.Param("id"), req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
