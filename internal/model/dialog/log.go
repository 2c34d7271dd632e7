package dialog

import "context"

// Log records dialog lifecycle events without any personal data. Every call
// may fail independently; callers decide what a failure means to them.
type Log interface {
	Begin(ctx context.Context) (string, error)
	SetState(ctx context.Context, id, state string) error
	End(ctx context.Context, id, final string) error
}

// Final states written when a dialog ends.
const (
	LogStarted        = "started"
	LogProjectInfo    = "project_info"
	LogRandomQuestion = "random_question"
	LogCompleted      = "completed"
	LogCancelled      = "cancelled"
	LogRestarted      = "restarted"
)

// SectionState is the log label for an entered section.
func SectionState(section string) string {
	return "section_" + section
}

// ThemeState is the log label for a chosen theme.
func ThemeState(theme string) string {
	return "theme_" + theme
}
