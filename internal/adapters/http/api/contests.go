// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// ContestsHandler handles contest discovery requests.
type ContestsHandler struct {
	deps Dependencies
}

// NewContestsHandler creates a new contests handler.
func NewContestsHandler(deps Dependencies) *ContestsHandler {
	return &ContestsHandler{deps: deps}
}

type contestDataResponse struct {
	Contests []string `json:"contests"`
}

// HandleContestData handles GET /api/contestData requests.
func (h *ContestsHandler) HandleContestData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	slugs, err := h.deps.LatestContests(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	if slugs == nil {
		slugs = []string{}
	}
	writeJSON(w, http.StatusOK, contestDataResponse{Contests: slugs})
}
