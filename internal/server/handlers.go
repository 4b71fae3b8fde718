package server

import (
	"net/http"

	"openroutersidebar/internal/connect"
	"openroutersidebar/internal/core"

	"github.com/gin-gonic/gin"
)

// showSidebar renders the sidebar page. A pass that changed the connection
// state answers with a redirect to the canonical URL instead of a page.
func (s *Server) showSidebar(c *gin.Context) {
	sess := sessionFrom(c)
	setNoStoreHeaders(c)

	sb, err := s.manager.Render(c.Request.Context(), sess, c.Request.URL.Query(), s.config.DefaultModel)
	if err != nil {
		s.config.Logger.Error("Render failed for session %s: %v", sess.ID, err)
		respondWithRenderError(c, err)
		return
	}
	if !s.saveSession(c, sess) {
		return
	}

	if sb.Redirect {
		c.Redirect(http.StatusFound, sb.Location("/"))
		return
	}

	c.HTML(http.StatusOK, "sidebar.html", newSidebarView(sb, sess))
}

// sidebarJSON runs the same render pass and reports it as JSON. The client
// is expected to follow canonicalUrl itself when redirect is set.
func (s *Server) sidebarJSON(c *gin.Context) {
	sess := sessionFrom(c)
	setNoStoreHeaders(c)

	sb, err := s.manager.Render(c.Request.Context(), sess, c.Request.URL.Query(), s.config.DefaultModel)
	if err != nil {
		s.config.Logger.Error("Render failed for session %s: %v", sess.ID, err)
		respondWithRenderError(c, err)
		return
	}
	if !s.saveSession(c, sess) {
		return
	}

	c.JSON(http.StatusOK, newSidebarView(sb, sess))
}

// logout disconnects and moves the visitor to a new session id; history,
// model and preferences carry over.
func (s *Server) logout(c *gin.Context) {
	sess := sessionFrom(c)
	_, q := s.manager.Logout(sess)
	s.rotateSession(c, sess)
	if !s.saveSession(c, sess) {
		return
	}
	c.Redirect(http.StatusFound, modelLocation(q.Get(core.QueryParamModel)))
}

func (s *Server) logoutJSON(c *gin.Context) {
	sess := sessionFrom(c)
	state, q := s.manager.Logout(sess)
	s.rotateSession(c, sess)
	if !s.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":        state.String(),
		"connected":    state == connect.Connected,
		"canonicalUrl": modelLocation(q.Get(core.QueryParamModel)),
	})
}

func (s *Server) clearChatHistory(c *gin.Context) {
	sess := sessionFrom(c)
	sess.ClearMessages()
	if !s.saveSession(c, sess) {
		return
	}
	c.Redirect(http.StatusFound, modelLocation(sess.Model))
}

func (s *Server) updatePreferences(c *gin.Context) {
	sess := sessionFrom(c)
	notices := connect.ApplyPreferences(&sess.Preferences, connect.PreferenceInput{
		Temperature: c.PostForm("temperature"),
		TopP:        c.PostForm("top_p"),
		MaxLength:   c.PostForm("max_length"),
	})
	for _, n := range notices {
		sess.AddFlash(n)
	}
	if len(notices) > 0 {
		s.config.Logger.Debug("Rejected %d preference value(s) for session %s", len(notices), sess.ID)
	}
	if !s.saveSession(c, sess) {
		return
	}
	c.Redirect(http.StatusFound, modelLocation(sess.Model))
}
