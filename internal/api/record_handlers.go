package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/crm-retention/internal/domain"
	"github.com/ignite/crm-retention/internal/pkg/httputil"
	"github.com/ignite/crm-retention/internal/service/records"
)

// RegisterRecordRoutes registers the cached record search route.
func (h *Handlers) RegisterRecordRoutes(r chi.Router) {
	r.Get("/records/{type}", h.HandleSearchRecords)
}

// HandleSearchRecords lists cached accounts, contacts, leads or campaigns
// matching the free-text filter.
//
//	GET /api/records/{type}?filter=text
func (h *Handlers) HandleSearchRecords(w http.ResponseWriter, r *http.Request) {
	kind := domain.DetailsType(chi.URLParam(r, "type"))
	res, err := h.records.Search(r.Context(), kind, r.URL.Query().Get("filter"))
	switch {
	case errors.Is(err, records.ErrUnsupportedType):
		httputil.BadRequest(w, "type must be account, contact, lead or campaign")
		return
	case err != nil:
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, res)
}
