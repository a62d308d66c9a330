package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
	"github.com/nguyentantai21042004/audio-brief/internal/session"
)

const savedMessage = "Audio file has been processed and saved successfully."

// Recorder is the capture side of the desktop UI.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (audio.Recording, error)
	Recording() bool
}

// Model is the root bubbletea model for the desktop recorder.
type Model struct {
	ctx         context.Context
	recorder    Recorder
	session     *session.Session
	instruction string

	// Recording state
	recording   bool
	pending     bool // start or stop in flight
	summarizing bool
	hasAudio    bool

	// Output
	summary    string
	statusText string
	errMessage string

	width  int
	height int
}

// New creates a Model bound to one recorder and one session. The session
// should keep its audio so the same recording can be summarized again.
func New(ctx context.Context, rec Recorder, sess *session.Session, instruction string) Model {
	return Model{
		ctx:         ctx,
		recorder:    rec,
		session:     sess,
		instruction: instruction,
		statusText:  "Press space to start recording",
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func startCmd(ctx context.Context, rec Recorder) tea.Cmd {
	return func() tea.Msg {
		return RecordingStartedMsg{Err: rec.Start(ctx)}
	}
}

// stopCmd stops the capture and hands the file to the session.
func stopCmd(ctx context.Context, rec Recorder, sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		r, err := rec.Stop(ctx)
		if err != nil {
			return RecordingStoppedMsg{Err: err}
		}
		if err := sess.SetRecording(ctx, r); err != nil {
			return RecordingStoppedMsg{Err: err}
		}
		return RecordingStoppedMsg{Recording: r}
	}
}

func summarizeCmd(ctx context.Context, sess *session.Session, instruction string) tea.Cmd {
	return func() tea.Msg {
		text, err := sess.Summarize(ctx, instruction)
		return SummaryMsg{Text: text, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case RecordingStartedMsg:
		m.pending = false
		if msg.Err != nil {
			m.recording = m.recorder.Recording()
			if errors.Is(msg.Err, audio.ErrAlreadyRecording) && m.recording {
				m.statusText = "Recording... press space to stop"
				return m, nil
			}
			m.errMessage = msg.Err.Error()
			m.statusText = "Recording failed"
			return m, nil
		}
		m.recording = true
		m.errMessage = ""
		m.statusText = "Recording... press space to stop"
		return m, nil

	case RecordingStoppedMsg:
		m.pending = false
		m.recording = m.recorder.Recording()
		if msg.Err != nil {
			m.errMessage = msg.Err.Error()
			m.statusText = "Recording was not saved"
			return m, nil
		}
		m.hasAudio = true
		m.errMessage = ""
		m.statusText = savedMessage
		return m, nil

	case SummaryMsg:
		m.summarizing = false
		if msg.Err != nil {
			m.errMessage = errorText(msg.Err)
			m.statusText = "Summary failed"
			return m, nil
		}
		m.summary = msg.Text
		m.errMessage = ""
		m.statusText = "Summary ready"
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit

	case KeySpace, KeyRecord:
		if m.summarizing || m.pending {
			return m, nil
		}
		m.pending = true
		if m.recording {
			m.statusText = "Saving recording..."
			return m, stopCmd(m.ctx, m.recorder, m.session)
		}
		m.statusText = "Opening microphone..."
		return m, startCmd(m.ctx, m.recorder)

	case KeySummarize, KeyEnter:
		if m.recording || m.pending || m.summarizing {
			return m, nil
		}
		if !m.hasAudio {
			m.errMessage = errorText(session.ErrMissingInput)
			return m, nil
		}
		m.summarizing = true
		m.errMessage = ""
		m.statusText = "Generating summary..."
		return m, summarizeCmd(m.ctx, m.session, m.instruction)
	}

	return m, nil
}

// SummarizeEnabled reports whether the summarize action is available.
func (m Model) SummarizeEnabled() bool {
	return m.hasAudio && !m.recording && !m.pending && !m.summarizing
}

func errorText(err error) string {
	if errors.Is(err, session.ErrMissingInput) {
		return "Please record or upload an audio file first."
	}
	return err.Error()
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderSummary())
	sections = append(sections, DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errMessage != "" {
		sections = append(sections, ErrorTextStyle.Render("Error: "+m.errMessage))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	dot := IdleDotStyle.Render("○")
	if m.recording {
		dot = RecordingDotStyle.Render("●")
	}
	status := StatusStyle.Render(m.statusText)
	if m.statusText == savedMessage {
		status = SuccessStyle.Render(m.statusText)
	}
	if m.summarizing {
		status = SpinnerStyle.Render(m.statusText)
	}
	return TitleStyle.Render("AUDIO BRIEF") + "  " + dot + " " + status
}

func (m Model) renderSummary() string {
	if m.summary == "" {
		return DimStyle.Render("No summary yet.")
	}
	return lipgloss.NewStyle().Width(m.width).Render(m.summary)
}

func (m Model) renderFooter() string {
	recordLabel := "record"
	if m.recording {
		recordLabel = "stop"
	}

	items := []string{
		FooterKeyStyle.Render("space") + " " + FooterDescStyle.Render(recordLabel),
	}
	if m.SummarizeEnabled() {
		items = append(items, FooterKeyStyle.Render("s")+" "+FooterDescStyle.Render("summarize"))
	} else {
		items = append(items, DimStyle.Render("s summarize"))
	}
	items = append(items, FooterKeyStyle.Render("q")+" "+FooterDescStyle.Render("quit"))
	return strings.Join(items, "  ")
}
