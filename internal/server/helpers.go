package server

import (
	"net/http"
	"net/url"
	"strings"

	"openroutersidebar/internal/connect"
	"openroutersidebar/internal/core"

	"github.com/gin-gonic/gin"
)

// setNoStoreHeaders keeps rendered credentials state out of shared caches
func setNoStoreHeaders(c *gin.Context) {
	c.Header(core.HeaderCacheControl, core.CacheControlNoStore)
}

// respondWithError returns a JSON error for API routes and plain text for pages
func respondWithError(c *gin.Context, code int, message string) {
	if strings.HasPrefix(c.FullPath(), "/api/") {
		c.JSON(code, gin.H{"error": message})
		return
	}
	c.String(code, message)
}

// respondWithRenderError maps a Render failure to a status code
func respondWithRenderError(c *gin.Context, err error) {
	if core.IsConfigError(err) {
		respondWithError(c, http.StatusInternalServerError, "Configuration error: "+err.Error())
		return
	}
	respondWithError(c, http.StatusInternalServerError, "Failed to render sidebar: "+err.Error())
}

// saveSession persists sess; on failure it writes a 500 and returns false.
func (s *Server) saveSession(c *gin.Context, sess *core.Session) bool {
	if err := s.sessions.Save(c.Request.Context(), sess); err != nil {
		s.config.Logger.Error("Failed to save session %s: %v", sess.ID, err)
		respondWithError(c, http.StatusInternalServerError, "failed to save session")
		return false
	}
	return true
}

// modelLocation builds the page URL that keeps only the model selection.
func modelLocation(model string) string {
	if model == "" {
		return "/"
	}
	q := url.Values{}
	q.Set(core.QueryParamModel, model)
	return "/?" + q.Encode()
}

// sidebarView is the data handed to both the HTML template and the JSON
// endpoint. It never carries the API key.
type sidebarView struct {
	State        string            `json:"state"`
	Connected    bool              `json:"connected"`
	Model        string            `json:"model"`
	Models       []string          `json:"models"`
	Notices      []string          `json:"notices"`
	ConnectURL   string            `json:"connectUrl,omitempty"`
	Query        map[string]string `json:"query"`
	CanonicalURL string            `json:"canonicalUrl"`
	Redirect     bool              `json:"redirect"`
	Messages     []core.Message    `json:"messages"`
	Preferences  core.Preferences  `json:"preferences"`
	SourceURL    string            `json:"-"`
}

func newSidebarView(sb *connect.Sidebar, sess *core.Session) sidebarView {
	query := make(map[string]string, len(sb.Query))
	for k := range sb.Query {
		query[k] = sb.Query.Get(k)
	}
	models := sb.Models
	if models == nil {
		models = []string{}
	}
	notices := sb.Notices
	if notices == nil {
		notices = []string{}
	}
	return sidebarView{
		State:        sb.State.String(),
		Connected:    sb.Connected(),
		Model:        sb.SelectedModel,
		Models:       models,
		Notices:      notices,
		ConnectURL:   sb.ConnectURL,
		Query:        query,
		CanonicalURL: sb.Location("/"),
		Redirect:     sb.Redirect,
		Messages:     sess.Messages,
		Preferences:  sess.Preferences,
		SourceURL:    core.SourceCodeURL,
	}
}
