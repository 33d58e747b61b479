package handler

import (
	"errors"
	"log"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"affordability-engine/internal/engine"
	"affordability-engine/internal/household"
	"affordability-engine/internal/loader"
	"affordability-engine/internal/model"
)

// Handler serves the demand pipeline over HTTP. Years and Scenarios fill in
// overview requests that omit them.
type Handler struct {
	Engine    *engine.Engine
	Years     []int
	Scenarios []model.IncomeScenario
}

func New(e *engine.Engine, years []int, scenarios []model.IncomeScenario) *Handler {
	return &Handler{Engine: e, Years: years, Scenarios: scenarios}
}

// Route dispatches on path and method.
func (h *Handler) Route(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		if requireMethod(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
		}
	case "/v1/lookup":
		if requireMethod(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, h.Engine.Lookup())
		}
	case "/v1/overview":
		if requireMethod(ctx, fasthttp.MethodPost) {
			h.handleOverview(ctx)
		}
	case "/v1/demand":
		if requireMethod(ctx, fasthttp.MethodPost) {
			h.handleDemand(ctx)
		}
	case "/v1/validate":
		if requireMethod(ctx, fasthttp.MethodPost) {
			h.handleValidate(ctx)
		}
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found: "+string(ctx.Path()))
	}
}

func (h *Handler) handleOverview(ctx *fasthttp.RequestCtx) {
	var req model.OverviewRequest
	if !decode(ctx, &req) {
		return
	}
	if len(req.Years) == 0 {
		req.Years = h.Years
	}
	if len(req.Scenarios) == 0 {
		req.Scenarios = h.Scenarios
	}

	resp, err := h.Engine.Overview(&req)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	writeJSON(ctx, outcomeStatus(resp.CalculationMetadata), resp)
}

func (h *Handler) handleDemand(ctx *fasthttp.RequestCtx) {
	var req model.DemandRequest
	if !decode(ctx, &req) {
		return
	}
	if req.Company == "" {
		writeError(ctx, fasthttp.StatusBadRequest, "Field 'company' is required")
		return
	}
	if req.Year == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "Field 'year' is required")
		return
	}

	resp, err := h.Engine.Detail(&req)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	writeJSON(ctx, outcomeStatus(resp.CalculationMetadata), resp)
}

func (h *Handler) handleValidate(ctx *fasthttp.RequestCtx) {
	var req model.ValidateRequest
	if len(ctx.PostBody()) > 0 && !decode(ctx, &req) {
		return
	}
	report, err := h.Engine.Validate(req.Companies)
	if err != nil {
		writeEngineError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, report)
}

func requireMethod(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set("Allow", method)
	writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
	return false
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func outcomeStatus(md model.CalculationMetadata) int {
	if md.CalculationOutcome == model.OutcomeFailure {
		return fasthttp.StatusUnprocessableEntity
	}
	return fasthttp.StatusOK
}

func writeEngineError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, engine.ErrCompanyNotFound):
		writeError(ctx, fasthttp.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrNoCompanies),
		errors.Is(err, engine.ErrNoYears),
		errors.Is(err, engine.ErrNoScenarios),
		errors.Is(err, engine.ErrUnknownRate),
		errors.Is(err, engine.ErrInvalidSupply),
		errors.Is(err, loader.ErrInvalidCompany),
		errors.Is(err, household.ErrUnknownScenario):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	default:
		log.Printf("request %s failed: %v", ctx.Path(), err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Internal error")
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("encoding response: %v", err)
		status = fasthttp.StatusInternalServerError
		body = []byte(`{"status":500,"message":"Internal error"}`)
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}
