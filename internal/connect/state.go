// Package connect implements the sidebar's connect/disconnect lifecycle:
// exchanging an authorization code for an API key, keeping the key and the
// selected model in the session, and describing what the page should show.
package connect

// State is the connection state derived from the session and query.
type State int

// Connection states.
const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "unknown"
}

// EventKind identifies a lifecycle event.
type EventKind int

// Lifecycle events.
const (
	EventCodeReceived EventKind = iota
	EventExchangeSucceeded
	EventExchangeFailed
	EventLogout
)

// Event is an input to Transition. Code, Key and Message are set according to Kind.
type Event struct {
	Kind    EventKind
	Code    string
	Key     string
	Message string
}

// EffectKind identifies a side effect requested by Transition.
type EffectKind int

// Side effects the caller must carry out.
const (
	EffectExchangeCode EffectKind = iota
	EffectStoreKey
	EffectClearKey
	EffectClearQuery
	EffectShowError
	EffectRedirect
)

// Effect is an instruction produced by Transition.
type Effect struct {
	Kind    EffectKind
	Code    string
	Key     string
	Message string
}

// Transition is the pure lifecycle function. Unlisted (state, event) pairs
// leave the state unchanged and request nothing.
func Transition(state State, ev Event) (State, []Effect) {
	switch {
	case state == Disconnected && ev.Kind == EventCodeReceived && ev.Code != "":
		return Connecting, []Effect{{Kind: EffectExchangeCode, Code: ev.Code}}

	case state == Connecting && ev.Kind == EventExchangeSucceeded && ev.Key != "":
		return Connected, []Effect{
			{Kind: EffectStoreKey, Key: ev.Key},
			{Kind: EffectClearQuery},
			{Kind: EffectRedirect},
		}

	case state == Connecting && (ev.Kind == EventExchangeFailed || ev.Kind == EventExchangeSucceeded):
		msg := ev.Message
		if msg == "" {
			msg = "Error exchanging code for API key: empty key"
		}
		return Disconnected, []Effect{{Kind: EffectShowError, Message: msg}}

	case state == Connected && ev.Kind == EventLogout:
		return Disconnected, []Effect{{Kind: EffectClearKey}, {Kind: EffectRedirect}}

	case state == Connected && ev.Kind == EventCodeReceived:
		// A code arriving while connected is stale; drop it from the URL.
		return Connected, []Effect{{Kind: EffectClearQuery}, {Kind: EffectRedirect}}
	}
	return state, nil
}
