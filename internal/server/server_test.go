package server

import (
	"testing"

	"github.com/akakileti/nestegg/internal/domain"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func serve(t *testing.T, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != "" {
		req.SetBodyString(body)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)

	New(nil).Handler()(ctx)
	return ctx
}

const validPlanJSON = `{
	"start_age": 30,
	"retire_age": 65,
	"inflation_rate": 0.03,
	"inflation_margin": 0.01,
	"investment_growth_rate": 0.06,
	"investment_growth_margin": 0.02,
	"years_after_retirement": 25,
	"base_year": 2026,
	"accounts": [
		{
			"label": "401k",
			"initial_balance": 25000,
			"tax_treatment": "exit",
			"tax_rate": 0.2,
			"contributions": [
				{"from_age": 30, "base": 6000, "growth_rate": 0.03}
			]
		}
	],
	"spending_schedule": [
		{"from_age": 65, "annual_spending": 40000}
	]
}`

func TestPing(t *testing.T) {
	ctx := serve(t, fasthttp.MethodGet, "/api/ping", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"message":"pong"}`, string(ctx.Response.Body()))
}

func TestPingRejectsPost(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/api/ping", "{}")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestUnknownRoute(t *testing.T) {
	ctx := serve(t, fasthttp.MethodGet, "/api/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	var resp struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, fasthttp.StatusNotFound, resp.Status)
}

func TestProjection(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/api/calc/projection", validPlanJSON)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var result domain.ProjectionResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &result))
	require.Len(t, result.Scenarios, 3)
	assert.Equal(t, domain.ScenarioMin, result.Scenarios[0].Kind)
	assert.Equal(t, domain.ScenarioMax, result.Scenarios[2].Kind)

	// 30..90 inclusive with a 25-year drawdown after retiring at 65.
	assert.Len(t, result.Scenarios[1].Points, 61)
	assert.Equal(t, 2026, result.Scenarios[1].Points[0].Year)
}

func TestProjectionBadJSON(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/api/calc/projection", "{not json")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestProjectionValidationError(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/api/calc/projection", `{"start_age": 65, "retire_age": 30}`)
	assert.Equal(t, fasthttp.StatusUnprocessableEntity, ctx.Response.StatusCode())
}

func TestProjectionOverlapReportsIssues(t *testing.T) {
	plan := `{
		"start_age": 30,
		"retire_age": 65,
		"inflation_rate": 0.03,
		"investment_growth_rate": 0.06,
		"accounts": [
			{
				"label": "401k",
				"initial_balance": 1000,
				"contributions": [
					{"from_age": 30, "base": 100, "growth_rate": 0, "years": 20},
					{"from_age": 40, "base": 200, "growth_rate": 0}
				]
			}
		]
	}`
	ctx := serve(t, fasthttp.MethodPost, "/api/calc/projection", plan)
	require.Equal(t, fasthttp.StatusUnprocessableEntity, ctx.Response.StatusCode())

	var resp struct {
		Message string   `json:"message"`
		Issues  []string `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.NotEmpty(t, resp.Issues)
}

func TestProjectionMethodNotAllowed(t *testing.T) {
	ctx := serve(t, fasthttp.MethodGet, "/api/calc/projection", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}
