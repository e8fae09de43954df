package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/crm-retention/internal/pkg/httputil"
	"github.com/ignite/crm-retention/internal/service/retention"
)

// RegisterRetentionRoutes registers the GDPR retention routes.
func (h *Handlers) RegisterRetentionRoutes(r chi.Router) {
	r.Route("/retention", func(r chi.Router) {
		r.Post("/classify", h.HandleClassify)
		r.Get("/contacts/{contactID}", h.HandleEvaluateContact)
		r.Post("/plan", h.HandlePlan)
		r.Get("/runs", h.HandleListRuns)

		r.Get("/protected/count", h.HandleProtectedCount)
		r.Post("/protected/reload", h.HandleProtectedReload)
	})
}

// HandleClassify classifies a contact whose context is posted by the caller.
//
//	POST /api/retention/classify
func (h *Handlers) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req retention.ClassifyRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Contact.ID == "" {
		httputil.BadRequest(w, "contact.id is required")
		return
	}

	res, err := h.retention.Classify(r.Context(), req)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, res)
}

// HandleEvaluateContact evaluates one stored contact.
//
//	GET /api/retention/contacts/{contactID}?today=YYYY-MM-DD
func (h *Handlers) HandleEvaluateContact(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		httputil.BadRequest(w, "today must be YYYY-MM-DD")
		return
	}

	ev, err := h.retention.Evaluate(r.Context(), chi.URLParam(r, "contactID"), today)
	switch {
	case errors.Is(err, retention.ErrNotFound):
		httputil.NotFound(w, "contact not found")
		return
	case err != nil:
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, ev)
}

// HandlePlan runs a retention pass and returns the candidates.
//
//	POST /api/retention/plan
func (h *Handlers) HandlePlan(w http.ResponseWriter, r *http.Request) {
	var req retention.PlanRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	plan, err := h.retention.Plan(r.Context(), req)
	switch {
	case errors.Is(err, retention.ErrInvalidAction):
		httputil.ErrorCode(w, http.StatusBadRequest, "invalid_action", err.Error())
		return
	case errors.Is(err, retention.ErrRunInProgress):
		httputil.ErrorCode(w, http.StatusConflict, "run_in_progress", err.Error())
		return
	case err != nil:
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, plan)
}

// HandleListRuns lists recorded passes.
//
//	GET /api/retention/runs?limit=N
func (h *Handlers) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.QueryInt(r, "limit", 20, 1)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	runs, err := h.retention.Runs(r.Context(), limit)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"runs": runs, "count": len(runs)})
}

// HandleProtectedCount reports how many addresses are protected.
//
//	GET /api/retention/protected/count
func (h *Handlers) HandleProtectedCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.protected.Count(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]int{"count": n})
}

// HandleProtectedReload re-reads the protected list from its source.
//
//	POST /api/retention/protected/reload
func (h *Handlers) HandleProtectedReload(w http.ResponseWriter, r *http.Request) {
	n, err := h.protected.Reload(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]int{"count": n})
}
