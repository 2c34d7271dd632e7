// Package dialog drives the reflection menu conversation for one session at a
// time. It owns no session storage and no transport.
package dialog

import (
	"context"
	"log"
	"slices"
	"strings"

	"github.com/zhouzirui/mylife/backend/internal/model/dialog"
	"github.com/zhouzirui/mylife/backend/internal/model/questionary"
)

// Machine maps inbound text plus session state to the next state and reply.
// A Machine is stateless and safe for concurrent use across sessions; callers
// must not run two transitions for the same session at once.
type Machine struct {
	repo questionary.Repository
	log  dialog.Log
}

// NewMachine wires the catalog and dialog log. A nil log disables logging.
func NewMachine(repo questionary.Repository, dialogLog dialog.Log) *Machine {
	if dialogLog == nil {
		dialogLog = nopLog{}
	}
	return &Machine{repo: repo, log: dialogLog}
}

// Start handles the start trigger: it discards any previous context, opens a
// new dialog record and shows the main menu.
func (m *Machine) Start(ctx context.Context, s *dialog.Session) dialog.Reply {
	if s.DialogID != "" {
		m.end(ctx, s, dialog.LogRestarted)
	}
	s.Reset()
	s.DialogID = m.begin(ctx)
	return m.mainMenu(welcomeText)
}

// Handle applies one inbound text to the session.
func (m *Machine) Handle(ctx context.Context, s *dialog.Session, text string) dialog.Reply {
	input := strings.TrimSpace(text)

	switch input {
	case CommandStart:
		return m.Start(ctx, s)
	case CommandCancel:
		return m.finish(ctx, s, cancelledText, dialog.LogCancelled)
	}

	switch s.State {
	case dialog.StateEnded:
		return dialog.Reply{Text: endedHintText, RemoveKeyboard: true, State: dialog.StateEnded, Ended: true}
	case dialog.StateMainMenu:
		return m.handleMainMenu(ctx, s, input)
	case dialog.StateSectionMenu:
		return m.handleSectionMenu(ctx, s, input)
	case dialog.StateThemeSelect:
		return m.handleThemeSelect(ctx, s, input)
	case dialog.StateResult:
		return m.handleResult(ctx, s, input)
	default:
		log.Printf("[dialog] session %s in unknown state %q, resetting", s.ID, s.State)
		return m.Start(ctx, s)
	}
}

func (m *Machine) handleMainMenu(ctx context.Context, s *dialog.Session, input string) dialog.Reply {
	switch {
	case slices.Contains(m.repo.ListSections(), input):
		s.Section = input
		m.setState(ctx, s, dialog.SectionState(input))
		return m.sectionMenu(s, "")
	case input == LabelAbout:
		return m.finish(ctx, s, aboutText, dialog.LogProjectInfo)
	default:
		return m.mainMenu(invalidSectionText)
	}
}

func (m *Machine) handleSectionMenu(ctx context.Context, s *dialog.Session, input string) dialog.Reply {
	if !m.hasSection(s) || input == LabelMainMenu {
		return m.Start(ctx, s)
	}

	switch input {
	case LabelRandomQuestion:
		question, ok := m.repo.PickRandomQuestion(s.Section, "")
		if !ok {
			return m.sectionMenu(s, noQuestionText)
		}
		return m.finish(ctx, s, questionPrefix+question+randomDoneSuffix, dialog.LogRandomQuestion)
	case LabelChooseTheme:
		return m.themeMenu(ctx, s, themePrompt)
	default:
		return m.sectionMenu(s, invalidOptionText)
	}
}

func (m *Machine) handleThemeSelect(ctx context.Context, s *dialog.Session, input string) dialog.Reply {
	if !m.hasSection(s) || input == LabelMainMenu {
		return m.Start(ctx, s)
	}
	if input == LabelBack {
		return m.sectionMenu(s, "")
	}

	if !slices.Contains(m.repo.ListThemes(s.Section), input) {
		return m.themeMenu(ctx, s, invalidThemeText)
	}

	question, ok := m.repo.PickRandomQuestion(s.Section, input)
	if !ok {
		return m.themeMenu(ctx, s, noQuestionText)
	}

	s.Theme = input
	s.Last = &dialog.QuestionContext{Section: s.Section, Theme: input}
	m.setState(ctx, s, dialog.ThemeState(input))
	return m.result(s, question)
}

func (m *Machine) handleResult(ctx context.Context, s *dialog.Session, input string) dialog.Reply {
	switch input {
	case LabelMainMenu:
		return m.Start(ctx, s)
	case LabelFinish:
		return m.finish(ctx, s, completedText, dialog.LogCompleted)
	case LabelOtherTheme:
		return m.themeMenu(ctx, s, themePrompt)
	case LabelAnother:
		if s.Last == nil || s.Last.Section == "" || s.Last.Theme == "" {
			return m.themeMenu(ctx, s, themePrompt)
		}
		question, ok := m.repo.PickRandomQuestion(s.Last.Section, s.Last.Theme)
		if !ok {
			return m.themeMenu(ctx, s, noQuestionText)
		}
		return m.result(s, question)
	default:
		return m.reply(s, invalidOptionText, resultKeyboard, "")
	}
}

func (m *Machine) hasSection(s *dialog.Session) bool {
	return s.Section != "" && slices.Contains(m.repo.ListSections(), s.Section)
}

func (m *Machine) mainMenu(text string) dialog.Reply {
	sections := m.repo.ListSections()
	keyboard := make([][]string, 0, len(sections)+1)
	for _, section := range sections {
		keyboard = append(keyboard, []string{section})
	}
	keyboard = append(keyboard, []string{LabelAbout})

	return dialog.Reply{
		Text:        text,
		Keyboard:    keyboard,
		Placeholder: placeholderSection,
		State:       dialog.StateMainMenu,
	}
}

// sectionMenu shows the section actions. An empty text means the section
// description prompt.
func (m *Machine) sectionMenu(s *dialog.Session, text string) dialog.Reply {
	if text == "" {
		text = m.repo.DescribeSection(s.Section) + sectionPromptSuffix
	}
	s.State = dialog.StateSectionMenu
	return m.reply(s, text, sectionKeyboard, placeholderAction)
}

func (m *Machine) themeMenu(ctx context.Context, s *dialog.Session, text string) dialog.Reply {
	if !m.hasSection(s) {
		return m.Start(ctx, s)
	}

	themes := m.repo.ListThemes(s.Section)
	keyboard := make([][]string, 0, len(themes)+1)
	for _, theme := range themes {
		keyboard = append(keyboard, []string{theme})
	}
	keyboard = append(keyboard, []string{LabelBack, LabelMainMenu})

	s.State = dialog.StateThemeSelect
	return m.reply(s, text, keyboard, placeholderTheme)
}

func (m *Machine) result(s *dialog.Session, question string) dialog.Reply {
	s.State = dialog.StateResult
	return m.reply(s, questionPrefix+question+nextStepSuffix, resultKeyboard, "")
}

func (m *Machine) reply(s *dialog.Session, text string, keyboard [][]string, placeholder string) dialog.Reply {
	return dialog.Reply{
		Text:        text,
		Keyboard:    cloneKeyboard(keyboard),
		Placeholder: placeholder,
		State:       s.State,
	}
}

// finish ends the dialog with a closing text and removes the keyboard.
func (m *Machine) finish(ctx context.Context, s *dialog.Session, text, final string) dialog.Reply {
	m.end(ctx, s, final)
	s.Reset()
	s.State = dialog.StateEnded
	return dialog.Reply{
		Text:           text,
		RemoveKeyboard: true,
		State:          dialog.StateEnded,
		Ended:          true,
	}
}

var (
	sectionKeyboard = [][]string{
		{LabelRandomQuestion},
		{LabelChooseTheme},
		{LabelMainMenu},
	}
	resultKeyboard = [][]string{
		{LabelAnother},
		{LabelOtherTheme},
		{LabelMainMenu, LabelFinish},
	}
)

func cloneKeyboard(keyboard [][]string) [][]string {
	out := make([][]string, len(keyboard))
	for i, row := range keyboard {
		out[i] = append([]string(nil), row...)
	}
	return out
}
