// Package server exposes the projection engine over HTTP.
package server

import (
	"context"
	"errors"

	"github.com/akakileti/nestegg/internal/calculation"
	"github.com/akakileti/nestegg/internal/config"
	"github.com/akakileti/nestegg/internal/domain"
	"github.com/akakileti/nestegg/internal/schedule"
	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// Server routes plan documents to the projection engine.
type Server struct {
	engine *calculation.ProjectionEngine
	parser *config.InputParser
	logger calculation.Logger
}

func New(logger calculation.Logger) *Server {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(logger)
	return &Server{
		engine: engine,
		parser: config.NewInputParser(),
		logger: logger,
	}
}

type pingResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Issues  []string `json:"issues,omitempty"`
}

// Handler returns the request router.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/api/ping":
			if !ctx.IsGet() {
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
				return
			}
			writeJSON(ctx, fasthttp.StatusOK, pingResponse{Message: "pong"})
		case "/api/calc/projection":
			if !ctx.IsPost() {
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
				return
			}
			s.handleProjection(ctx)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "not found")
		}
	}
}

func (s *Server) handleProjection(ctx *fasthttp.RequestCtx) {
	var plan domain.Plan
	if err := json.Unmarshal(ctx.PostBody(), &plan); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.parser.ApplyDefaults(&plan)
	if err := s.parser.ValidatePlan(&plan); err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := s.engine.RunProjection(context.Background(), &plan)
	if err != nil {
		var resolveErr *schedule.ResolveError
		if errors.As(err, &resolveErr) {
			resp := errorResponse{
				Status:  fasthttp.StatusUnprocessableEntity,
				Message: "plan schedules are inconsistent",
			}
			for _, issue := range schedule.Errs(resolveErr.Issues) {
				resp.Issues = append(resp.Issues, issue.String())
			}
			writeJSON(ctx, resp.Status, resp)
			return
		}
		s.logger.Errorf("projection failed: %v", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "projection failed")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, result)
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("listening on %s", addr)
	return fasthttp.ListenAndServe(addr, s.Handler())
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, errorResponse{Status: status, Message: message})
}
