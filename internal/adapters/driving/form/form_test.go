package form

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/blueprint/internal/core/domain"
)

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m *Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

// fill types a complete request and leaves focus on the requirements field.
func fill(m *Model) {
	typeText(m, "120")
	press(m, tea.KeyTab)
	typeText(m, "3")
	press(m, tea.KeyTab)
	typeText(m, "2")
	press(m, tea.KeyTab)
	press(m, tea.KeyTab)
	typeText(m, "open kitchen")
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNew_FocusesArea(t *testing.T) {
	m := New()

	assert.Equal(t, fieldArea, m.focus)
	assert.True(t, m.inputs[fieldArea].Focused())
	assert.Equal(t, domain.StyleModern, m.style)
	assert.NotNil(t, m.Init())
}

func TestModel_SubmitReturnsRequest(t *testing.T) {
	m := New()
	fill(m)

	cmd := press(m, tea.KeyEnter)

	assert.True(t, isQuit(cmd))
	req, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, domain.DesignRequest{
		Area:                   120,
		Bedrooms:               3,
		Bathrooms:              2,
		Style:                  domain.StyleModern,
		AdditionalRequirements: "open kitchen",
	}, req)
}

func TestModel_EnterAdvancesBeforeLastField(t *testing.T) {
	m := New()
	typeText(m, "80")

	cmd := press(m, tea.KeyEnter)

	assert.False(t, isQuit(cmd))
	assert.Equal(t, fieldBedrooms, m.focus)
	_, err := m.Result()
	assert.ErrorIs(t, err, domain.ErrInputCancelled)
}

func TestModel_StyleCycles(t *testing.T) {
	m := New()
	m.setFocus(fieldStyle)

	press(m, tea.KeyRight)
	assert.Equal(t, domain.StyleTraditional, m.style)

	press(m, tea.KeyLeft)
	press(m, tea.KeyLeft)
	assert.Equal(t, domain.StyleContemporary, m.style)
}

func TestModel_LeftRightMoveCursorOutsideStyle(t *testing.T) {
	m := New()
	typeText(m, "12")

	press(m, tea.KeyLeft)
	typeText(m, "5")

	assert.Equal(t, "152", m.inputs[fieldArea].Value())
	assert.Equal(t, domain.StyleModern, m.style)
}

func TestModel_FocusWraps(t *testing.T) {
	m := New()

	press(m, tea.KeyShiftTab)
	assert.Equal(t, fieldRequirements, m.focus)

	press(m, tea.KeyTab)
	assert.Equal(t, fieldArea, m.focus)
}

func TestModel_CancelKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := New()
		fill(m)

		cmd := press(m, k)

		assert.True(t, isQuit(cmd))
		_, err := m.Result()
		assert.ErrorIs(t, err, domain.ErrInputCancelled)
	}
}

func TestModel_InvalidFieldsKeepFormOpen(t *testing.T) {
	tests := []struct {
		name  string
		area  string
		beds  string
		baths string
		focus field
	}{
		{"empty area", "", "3", "2", fieldArea},
		{"zero area", "0", "3", "2", fieldArea},
		{"text bedrooms", "100", "three", "2", fieldBedrooms},
		{"negative bathrooms", "100", "3", "-1", fieldBathrooms},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.inputs[fieldArea].SetValue(tt.area)
			m.inputs[fieldBedrooms].SetValue(tt.beds)
			m.inputs[fieldBathrooms].SetValue(tt.baths)
			m.setFocus(fieldRequirements)

			cmd := press(m, tea.KeyEnter)

			assert.False(t, isQuit(cmd))
			assert.ErrorIs(t, m.Err(), domain.ErrInvalidInput)
			assert.Equal(t, tt.focus, m.focus)
			assert.Contains(t, m.View(), "invalid input")
		})
	}
}

func TestModel_CtrlSSubmitsFromAnyField(t *testing.T) {
	m := New(WithSeed(domain.DesignRequest{Area: 95, Bedrooms: 2, Bathrooms: 1, Style: domain.StyleMinimalist}))

	cmd := press(m, tea.KeyCtrlS)

	assert.True(t, isQuit(cmd))
	req, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, 95.0, req.Area)
	assert.Equal(t, domain.StyleMinimalist, req.Style)
}

func TestModel_View(t *testing.T) {
	m := New(WithStyles(NewStyles(nil)))

	view := m.View()

	assert.Contains(t, view, "New design")
	for _, label := range fieldLabels {
		assert.Contains(t, view, label)
	}
	for _, s := range domain.Styles() {
		assert.Contains(t, view, s.String())
	}
}

func TestRun_Submit(t *testing.T) {
	in := strings.NewReader("150\t4\t3\r\r\r")
	var out bytes.Buffer

	req, err := Run(context.Background(), in, &out)

	require.NoError(t, err)
	assert.Equal(t, 150.0, req.Area)
	assert.Equal(t, 4, req.Bedrooms)
	assert.Equal(t, 3, req.Bathrooms)
}

func TestRun_Cancel(t *testing.T) {
	in := strings.NewReader("\x03")
	var out bytes.Buffer

	_, err := Run(context.Background(), in, &out)

	assert.ErrorIs(t, err, domain.ErrInputCancelled)
}
