package core

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned by SessionStore.Load for unknown ids.
var ErrSessionNotFound = errors.New("session not found")

// Message is one displayed chat entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Preferences are the generation sliders shown under the model selector.
type Preferences struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxLength   int     `json:"max_length"`
}

// Preference bounds
const (
	TemperatureMin     = 0.01
	TemperatureMax     = 5.0
	TemperatureDefault = 0.1
	TopPMin            = 0.01
	TopPMax            = 1.0
	TopPDefault        = 0.9
	MaxLengthMin       = 64
	MaxLengthMax       = 4096
	MaxLengthStep      = 8
	MaxLengthDefault   = 512
)

// DefaultPreferences returns the slider defaults.
func DefaultPreferences() Preferences {
	return Preferences{
		Temperature: TemperatureDefault,
		TopP:        TopPDefault,
		MaxLength:   MaxLengthDefault,
	}
}

// Session is the per-visitor state passed explicitly into the sidebar logic.
// APIKey is sensitive: it is never written to query parameters or logs.
type Session struct {
	ID          string      `json:"id"`
	APIKey      string      `json:"api_key,omitempty"`
	Model       string      `json:"model,omitempty"`
	Messages    []Message   `json:"messages"`
	Preferences Preferences `json:"preferences"`
	// Flash holds notices raised by a form post, shown on the next render.
	Flash     []string  `json:"flash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates a session seeded with the greeting message.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:          id,
		Messages:    InitialMessages(),
		Preferences: DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// InitialMessages returns a fresh history holding only the assistant greeting.
func InitialMessages() []Message {
	return []Message{{Role: RoleAssistant, Content: GreetingMessage}}
}

// HasAPIKey reports whether a credential is stored.
func (s *Session) HasAPIKey() bool {
	return s != nil && s.APIKey != ""
}

// ClearMessages resets the display history to the greeting.
func (s *Session) ClearMessages() {
	s.Messages = InitialMessages()
}

// AddFlash queues a notice for the next render.
func (s *Session) AddFlash(msg string) {
	s.Flash = append(s.Flash, msg)
}

// TakeFlash returns and clears queued notices.
func (s *Session) TakeFlash() []string {
	flash := s.Flash
	s.Flash = nil
	return flash
}

// Clone returns a deep copy so stores never share message slices with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Messages = append([]Message(nil), s.Messages...)
	cp.Flash = append([]string(nil), s.Flash...)
	return &cp
}
