package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

// field identifies one row of the form.
type field int

const (
	fieldArea field = iota
	fieldBedrooms
	fieldBathrooms
	fieldStyle
	fieldRequirements
	fieldCount
)

var fieldLabels = [fieldCount]string{"Area (m²)", "Bedrooms", "Bathrooms", "Style", "Requirements"}

// Model is the bubbletea model of the design request form.
type Model struct {
	inputs [fieldCount]textinput.Model
	style  domain.Style
	focus  field

	keys   *KeyMap
	styles *Styles
	help   help.Model

	err       error
	request   domain.DesignRequest
	submitted bool
	cancelled bool
}

var _ tea.Model = (*Model)(nil)

// Option configures a Model.
type Option func(*Model)

// WithSeed pre-fills every field from req.
func WithSeed(req domain.DesignRequest) Option {
	return func(m *Model) {
		if req.Area > 0 {
			m.inputs[fieldArea].SetValue(strconv.FormatFloat(req.Area, 'f', -1, 64))
		}
		m.inputs[fieldBedrooms].SetValue(strconv.Itoa(req.Bedrooms))
		m.inputs[fieldBathrooms].SetValue(strconv.Itoa(req.Bathrooms))
		m.inputs[fieldRequirements].SetValue(req.AdditionalRequirements)
		if req.Style.Valid() {
			m.style = req.Style
		}
	}
}

// WithStyles overrides the default styles.
func WithStyles(s *Styles) Option {
	return func(m *Model) {
		if s != nil {
			m.styles = s
		}
	}
}

// New creates a form focused on the area field.
func New(opts ...Option) *Model {
	m := &Model{
		keys:   DefaultKeyMap(),
		styles: DefaultStyles(),
		help:   help.New(),
		style:  domain.StyleModern,
	}

	placeholders := [fieldCount]string{"120", "3", "2", "", "open-plan kitchen, south-facing garden"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 16
		ti.Width = 24
		m.inputs[i] = ti
	}
	m.inputs[fieldRequirements].CharLimit = 512
	m.inputs[fieldRequirements].Width = 48

	for _, opt := range opts {
		opt(m)
	}
	m.inputs[fieldArea].Focus()
	return m
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateInput(msg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Submit):
		// enter walks the fields; it submits from the last one.
		if keyMsg.String() == "enter" && m.focus < fieldRequirements {
			return m, m.setFocus(m.focus + 1)
		}
		return m, m.submit()
	case key.Matches(keyMsg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(keyMsg, m.keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case m.focus == fieldStyle && key.Matches(keyMsg, m.keys.Left):
		m.cycleStyle(-1)
		return m, nil
	case m.focus == fieldStyle && key.Matches(keyMsg, m.keys.Right):
		m.cycleStyle(1)
		return m, nil
	}

	return m, m.updateInput(msg)
}

// View renders the form.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("New design"))
	b.WriteString("\n")

	for f := fieldArea; f < fieldCount; f++ {
		label := m.styles.Label
		if f == m.focus {
			label = m.styles.FocusedLabel
		}

		var value string
		if f == fieldStyle {
			value = m.styleRow()
		} else {
			box := m.styles.InputField
			if f == m.focus {
				box = m.styles.FocusedField
			}
			value = box.Render(m.inputs[f].View())
		}
		//nolint:misspell // lipgloss.Center is the correct constant from the library
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, label.Render(fieldLabels[f]), value))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	b.WriteString("\n")
	return b.String()
}

// Result returns the submitted request, or domain.ErrInputCancelled.
func (m *Model) Result() (domain.DesignRequest, error) {
	if m.cancelled || !m.submitted {
		return domain.DesignRequest{}, domain.ErrInputCancelled
	}
	return m.request, nil
}

// Err returns the last validation error shown on the form.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) styleRow() string {
	parts := make([]string, 0, len(domain.Styles()))
	for _, s := range domain.Styles() {
		if s == m.style {
			parts = append(parts, m.styles.Selected.Render(s.String()))
		} else {
			parts = append(parts, m.styles.Choice.Render(s.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) cycleStyle(step int) {
	styles := domain.Styles()
	next := (int(m.style) + step + len(styles)) % len(styles)
	m.style = styles[next]
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		if field(i) == f && f != fieldStyle {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	if m.focus == fieldStyle {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// submit validates the fields and quits on success.
// On failure the offending field is focused and the error shown.
func (m *Model) submit() tea.Cmd {
	req, bad, err := m.parse()
	if err != nil {
		m.err = err
		return m.setFocus(bad)
	}
	m.err = nil
	m.request = req
	m.submitted = true
	return tea.Quit
}

func (m *Model) parse() (domain.DesignRequest, field, error) {
	area, err := strconv.ParseFloat(m.value(fieldArea), 64)
	if err != nil || !(area > 0) {
		return domain.DesignRequest{}, fieldArea, fmt.Errorf("%w: area must be a positive number", domain.ErrInvalidInput)
	}
	bedrooms, err := strconv.Atoi(m.value(fieldBedrooms))
	if err != nil || bedrooms < 0 {
		return domain.DesignRequest{}, fieldBedrooms, fmt.Errorf("%w: bedrooms must be a whole number", domain.ErrInvalidInput)
	}
	bathrooms, err := strconv.Atoi(m.value(fieldBathrooms))
	if err != nil || bathrooms < 0 {
		return domain.DesignRequest{}, fieldBathrooms, fmt.Errorf("%w: bathrooms must be a whole number", domain.ErrInvalidInput)
	}

	req, err := domain.NewDesignRequest(area, bedrooms, bathrooms, m.style, m.value(fieldRequirements))
	if err != nil {
		return domain.DesignRequest{}, fieldArea, err
	}
	return req, 0, nil
}

func (m *Model) value(f field) string {
	return strings.TrimSpace(m.inputs[f].Value())
}
