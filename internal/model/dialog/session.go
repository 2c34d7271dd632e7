package dialog

import "time"

// State is a conversation state of the reflection menu.
type State string

const (
	StateMainMenu    State = "MAIN_MENU"
	StateSectionMenu State = "SECTION_MENU"
	StateThemeSelect State = "THEME_SELECT"
	StateResult      State = "RESULT"
	// StateEnded marks the terminal outcome. Only the start trigger leaves it.
	StateEnded State = "ENDED"
)

// QuestionContext is the section/theme pair behind the last shown question.
type QuestionContext struct {
	Section string `json:"section"`
	Theme   string `json:"theme"`
}

// Session captures a transient anonymous conversation. It stores no answers.
type Session struct {
	ID        string           `json:"id"`
	State     State            `json:"state"`
	Section   string           `json:"section,omitempty"`
	Theme     string           `json:"theme,omitempty"`
	Last      *QuestionContext `json:"last,omitempty"`
	DialogID  string           `json:"-"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewSession returns a session that has not seen the start trigger yet.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		State:     StateEnded,
		CreatedAt: time.Now().UTC(),
	}
}

// Reset clears the section and theme context and returns to the main menu.
// The dialog correlation id is left to the caller.
func (s *Session) Reset() {
	s.State = StateMainMenu
	s.Section = ""
	s.Theme = ""
	s.Last = nil
}

// Ended reports whether the dialog reached its terminal outcome.
func (s *Session) Ended() bool {
	return s.State == StateEnded
}
