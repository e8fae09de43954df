package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/pkg/httputil"
	"github.com/ignite/crm-retention/internal/stage"
)

// RegisterStageRoutes registers the opportunity details routes.
func (h *Handlers) RegisterStageRoutes(r chi.Router) {
	r.Get("/stages", h.HandleListStages)
	r.Get("/stages/{stage}", h.HandleGetStage)

	r.Post("/opportunities/stage", h.HandleChangeStage)
	r.Get("/opportunities/next-step-date", h.HandleNextStepDate)
	r.Get("/accounts/{accountID}/next-steps", h.HandleNextSteps)
	r.Get("/linked-items/labels", h.HandleLinkedItemLabels)
}

// HandleListStages lists every sales stage with its defaults.
//
//	GET /api/stages
func (h *Handlers) HandleListStages(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, stage.All())
}

// HandleGetStage describes one stage. Labels containing "/" must be sent
// percent-encoded. Unknown labels get the default probability.
//
//	GET /api/stages/{stage}
func (h *Handlers) HandleGetStage(w http.ResponseWriter, r *http.Request) {
	label, err := url.PathUnescape(chi.URLParam(r, "stage"))
	if err != nil {
		httputil.BadRequest(w, "invalid stage")
		return
	}
	httputil.OK(w, stage.Describe(label))
}

type stageChangeRequest struct {
	Opportunity domain.Opportunity `json:"opportunity"`
	Stage       string             `json:"stage"`

	// EditedCloseDate is the close date the user typed, if any.
	EditedCloseDate *domain.Date `json:"edited_close_date,omitempty"`
	Today           *domain.Date `json:"today,omitempty"`
}

type stageChangeResponse struct {
	Opportunity    domain.Opportunity `json:"opportunity"`
	CloseDateLabel string             `json:"close_date_label"`
	CloseDateFixed bool               `json:"close_date_fixed"`
}

// HandleChangeStage applies a stage change to a posted opportunity: new
// probability, and the close date the details view would show.
//
//	POST /api/opportunities/stage
func (h *Handlers) HandleChangeStage(w http.ResponseWriter, r *http.Request) {
	var req stageChangeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if req.Stage == "" {
		httputil.BadRequest(w, "stage is required")
		return
	}

	today := h.now()
	if req.Today != nil && !req.Today.IsZero() {
		today = req.Today.Time
	}

	tracker := stage.NewCloseDateTracker(req.Opportunity.CloseDate)
	if req.EditedCloseDate != nil {
		tracker.Edit(req.EditedCloseDate.Time)
	}
	opp := stage.Apply(req.Opportunity, req.Stage, tracker, today)

	httputil.OK(w, stageChangeResponse{
		Opportunity:    opp,
		CloseDateLabel: stage.CloseDateLabel(req.Stage),
		CloseDateFixed: stage.CloseDateIsFixed(req.Stage),
	})
}

// HandleNextStepDate returns the date the "next step" shortcut fills in.
//
//	GET /api/opportunities/next-step-date?today=YYYY-MM-DD
func (h *Handlers) HandleNextStepDate(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		httputil.BadRequest(w, "today must be YYYY-MM-DD")
		return
	}
	httputil.OK(w, map[string]string{"next_call_date": stage.NextStepDate(today).Format(dateLayout)})
}

// HandleNextSteps returns the distinct next-step texts used on an account's
// opportunities, for completion.
//
//	GET /api/accounts/{accountID}/next-steps
func (h *Handlers) HandleNextSteps(w http.ResponseWriter, r *http.Request) {
	opps, err := h.opportunities.OpportunitiesForAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string][]string{"next_steps": stage.UniqueNextSteps(opps)})
}

// HandleLinkedItemLabels returns the button texts for linked notes and
// documents.
//
//	GET /api/linked-items/labels?notes=N&documents=M
func (h *Handlers) HandleLinkedItemLabels(w http.ResponseWriter, r *http.Request) {
	notes, err := httputil.QueryInt(r, "notes", 0, 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	docs, err := httputil.QueryInt(r, "documents", 0, 0)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.OK(w, map[string]string{
		"notes":     stage.NotesButtonText(notes),
		"documents": stage.DocumentsButtonText(docs),
	})
}
