package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/joshdurbin/url-shortener-dashboard/internal/domain"
)

// maxRequestBody bounds JSON request bodies accepted by the API
const maxRequestBody = 64 << 10

// listLinksResponse is the body of a successful GET /api/links
type listLinksResponse struct {
	URLs []domain.Link `json:"urls"`
}

// APIListLinks handles GET /api/links
func (h *Handler) APIListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.dashboard.ListLinks(r.Context(), h.cookies.Token(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if links == nil {
		links = []domain.Link{}
	}
	h.writeJSON(w, http.StatusOK, listLinksResponse{URLs: links})
}

// APICreateLink handles POST /api/links
func (h *Handler) APICreateLink(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLinkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("Invalid JSON"))
		return
	}

	shortURL, err := h.dashboard.CreateLink(r.Context(), h.cookies.Token(r), req.URL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, domain.CreateLinkResponse{ShortURL: shortURL})
}

// APIDeleteLink handles DELETE /api/links/{code}
func (h *Handler) APIDeleteLink(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.DeleteLink(r.Context(), h.cookies.Token(r), r.PathValue("code")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}

// APIMetrics handles GET /api/metrics
func (h *Handler) APIMetrics(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboard.Metrics(r.Context(), h.cookies.Token(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, statusFor(err), domain.Describe(err))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
