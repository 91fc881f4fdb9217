package api

import (
	"net/http"

	"github.com/okian/herofan/internal/domain/catalog"
)

// contentResponse is everything the landing page renders except the roster.
type contentResponse struct {
	Banner     catalog.Banner           `json:"banner"`
	Attributes []catalog.AttributeLabel `json:"attributes"`
	Featured   []catalog.Character      `json:"featured"`
	Timeline   []catalog.Phase          `json:"timeline"`
	Statistics []catalog.Statistic      `json:"statistics"`
	Footer     []catalog.LinkGroup      `json:"footer"`
}

// ContentHandler serves static site content.
type ContentHandler struct {
	deps ContentDependencies
}

// NewContentHandler creates a new content handler.
func NewContentHandler(deps ContentDependencies) *ContentHandler {
	return &ContentHandler{deps: deps}
}

// HandleContent handles GET /api/content.
func (h *ContentHandler) HandleContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.Content(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, contentResponse{
		Banner:     c.Banner,
		Attributes: c.Attributes,
		Featured:   c.Featured,
		Timeline:   c.Timeline,
		Statistics: c.Statistics,
		Footer:     c.Footer,
	})
}
