package connect

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"openroutersidebar/internal/catalog"
	"openroutersidebar/internal/core"
	"openroutersidebar/internal/util"
)

// Sidebar is the outcome of one render pass.
type Sidebar struct {
	State         State
	APIKey        string
	SelectedModel string
	Models        []string
	Notices       []string
	// ConnectURL is set only while disconnected.
	ConnectURL string
	// Query is the canonical query string for the page after this pass.
	Query url.Values
	// Redirect asks the host to reload the page at Query.
	Redirect bool
}

// Connected reports whether a credential is available.
func (s *Sidebar) Connected() bool {
	return s.State == Connected
}

// Location returns path with the canonical query appended.
func (s *Sidebar) Location(path string) string {
	if len(s.Query) == 0 {
		return path
	}
	return path + "?" + s.Query.Encode()
}

// Notices keep this many leading and trailing characters of an upstream error.
const (
	noticeHeadLen = 160
	noticeTailLen = 40
)

// Manager runs render passes against an explicitly passed session.
type Manager struct {
	catalog    core.ModelCatalog
	exchanger  core.KeyExchanger
	connectURL string
	logger     core.Logger
}

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Catalog    core.ModelCatalog
	Exchanger  core.KeyExchanger
	ConnectURL string
	Logger     core.Logger
}

// NewManager creates a Manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required in ManagerConfig")
	}
	if cfg.Exchanger == nil {
		return nil, fmt.Errorf("exchanger is required in ManagerConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Manager{
		catalog:    cfg.Catalog,
		exchanger:  cfg.Exchanger,
		connectURL: cfg.ConnectURL,
		logger:     logger,
	}, nil
}

// StateOf derives the resting state of a session.
func StateOf(sess *core.Session) State {
	if sess.HasAPIKey() {
		return Connected
	}
	return Disconnected
}

// Render runs one pass of the sidebar: it exchanges a pending authorization
// code, fetches the model catalog, resolves the selection and writes the
// model back to sess and to the returned query. The returned query carries
// only the model, whatever the request held. Upstream failures become
// notices; only a default model missing from the catalog is returned as an error.
func (m *Manager) Render(ctx context.Context, sess *core.Session, query url.Values, defaultModel string) (*Sidebar, error) {
	if sess == nil {
		return nil, fmt.Errorf("render requires a session")
	}

	q := cloneValues(query)
	sb := &Sidebar{Notices: sess.TakeFlash()}
	state := StateOf(sess)

	// Read before the exchange can clear the query.
	previous := q.Get(core.QueryParamModel)
	if previous == "" {
		previous = sess.Model
	}

	if code := q.Get(core.QueryParamCode); code != "" {
		m.logger.Debug("Session %s received authorization code %s", sess.ID, util.MaskSecret(code))
		state = m.apply(ctx, sess, state, Event{Kind: EventCodeReceived, Code: code}, sb, &q)
	}

	models, err := m.catalog.ListModels(ctx)
	if err != nil {
		sb.Notices = append(sb.Notices, noticeFor(err))
	}

	selected, err := catalog.SelectModel(models, previous, defaultModel)
	if err != nil {
		return nil, err
	}

	sess.Model = selected
	sess.UpdatedAt = time.Now()

	sb.State = state
	sb.APIKey = sess.APIKey
	sb.SelectedModel = selected
	sb.Models = models
	sb.Query = modelQuery(selected)
	if state != Connected {
		sb.ConnectURL = m.connectURL
	}
	return sb, nil
}

// Logout clears the stored key. It returns the resulting state and the
// query the page should reload with.
func (m *Manager) Logout(sess *core.Session) (State, url.Values) {
	sb := &Sidebar{}
	q := url.Values{}
	state := m.apply(context.Background(), sess, StateOf(sess), Event{Kind: EventLogout}, sb, &q)
	if state == Disconnected {
		m.logger.Info("Session %s logged out", sess.ID)
	}
	sess.UpdatedAt = time.Now()
	return state, modelQuery(sess.Model)
}

// apply feeds ev through Transition and carries out the requested effects.
// A code exchange produces a follow-up event that is applied in turn.
func (m *Manager) apply(ctx context.Context, sess *core.Session, state State, ev Event, sb *Sidebar, q *url.Values) State {
	next, effects := Transition(state, ev)
	for _, eff := range effects {
		switch eff.Kind {
		case EffectExchangeCode:
			follow := Event{Kind: EventExchangeSucceeded}
			key, err := m.exchanger.ExchangeCode(ctx, eff.Code)
			if err != nil {
				follow = Event{Kind: EventExchangeFailed, Message: noticeFor(err)}
			} else {
				follow.Key = key
			}
			next = m.apply(ctx, sess, next, follow, sb, q)
		case EffectStoreKey:
			sess.APIKey = eff.Key
		case EffectClearKey:
			sess.APIKey = ""
		case EffectClearQuery:
			*q = url.Values{}
		case EffectShowError:
			sb.Notices = append(sb.Notices, eff.Message)
		case EffectRedirect:
			sb.Redirect = true
		}
	}
	return next
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

func modelQuery(model string) url.Values {
	q := url.Values{}
	if model != "" {
		q.Set(core.QueryParamModel, model)
	}
	return q
}

// noticeFor shortens upstream error text so a full error page never lands in the sidebar.
func noticeFor(err error) string {
	return util.TruncateString(core.UserMessage(err), noticeHeadLen, noticeTailLen, " ... ")
}
