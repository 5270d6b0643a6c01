// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/dugout-io/dugout/internal/domain/constraint"
	"github.com/dugout-io/dugout/internal/domain/lineup"
	"github.com/dugout-io/dugout/internal/domain/optimizer"
	"github.com/dugout-io/dugout/internal/domain/result"
	"github.com/dugout-io/dugout/pkg/metrics"
)

// OptimizeDependencies defines the interface for optimization requests.
type OptimizeDependencies interface {
	Optimize(ctx context.Context, req constraint.Request, mode string) (result.Result, error)
}

// optimizeRequest mirrors the POST /optimize body: constraint fields plus
// an optional solver mode override.
type optimizeRequest struct {
	constraint.Request
	Mode string `json:"mode,omitempty"`
}

// OptimizeHandler handles squad optimization requests.
type OptimizeHandler struct {
	deps    OptimizeDependencies
	limiter *rate.Limiter
}

// NewOptimizeHandler creates a new optimize handler. A non-positive rate
// disables request limiting.
func NewOptimizeHandler(deps OptimizeDependencies, perSecond float64, burst int) *OptimizeHandler {
	h := &OptimizeHandler{deps: deps}
	if perSecond > 0 {
		if burst < 1 {
			burst = int(perSecond)
		}
		h.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return h
}

// HandleOptimize handles POST /optimize requests.
//
// Status mapping: malformed constraints are 400, well-formed but
// unsatisfiable problems are 422, rate-limited requests are 429.
func (h *OptimizeHandler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "api.optimize"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if h.limiter != nil && !h.limiter.Allow() {
		metrics.RecordRateLimited()
		writeError(w, http.StatusTooManyRequests, "rate_limited", NewKind(op, ErrRateLimited))
		return
	}

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Optimize(r.Context(), req.Request, req.Mode)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeOptimizeError(w http.ResponseWriter, err error) {
	var (
		invalidConstraint *constraint.InvalidConstraintError
		infeasible        *optimizer.InfeasibleError
		invalidFormation  *lineup.InvalidFormationError
	)
	switch {
	case errors.As(err, &invalidConstraint):
		writeError(w, http.StatusBadRequest, "invalid_constraint", err)
	case errors.As(err, &infeasible):
		writeError(w, http.StatusUnprocessableEntity, "infeasible", err)
	case errors.As(err, &invalidFormation):
		writeError(w, http.StatusUnprocessableEntity, "invalid_formation", err)
	case errors.Is(err, constraint.ErrInvalidConstraint):
		writeError(w, http.StatusBadRequest, "invalid_constraint", err)
	case errors.Is(err, optimizer.ErrInfeasible):
		writeError(w, http.StatusUnprocessableEntity, "infeasible", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
