package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/worklens/worklens/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	billableRate *string
	rangeDays    *string
	weekStart    *string
	exportDir    *string
}

func newSettingsModel(s *store.Store) settingsModel {
	br, rd, ws, ed := "", "", "", ""
	return settingsModel{
		store:        s,
		billableRate: &br,
		rangeDays:    &rd,
		weekStart:    &ws,
		exportDir:    &ed,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) getVal(key, def string) string {
	for _, st := range s.settings {
		if st.Key == key {
			return st.Value
		}
	}
	return def
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.billableRate = s.getVal("billable_rate", "0")
	*s.rangeDays = s.getVal("default_range_days", "30")
	*s.weekStart = s.getVal("week_start", "sunday")
	*s.exportDir = s.getVal("export_dir", "")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Billable rate (per hour, 0 = off)").Value(s.billableRate),
			huh.NewInput().Title("Default report range (days)").Value(s.rangeDays),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Sunday", "sunday"),
					huh.NewOption("Monday", "monday"),
				).Value(s.weekStart),
			huh.NewInput().Title("Export directory (blank = home)").Value(s.exportDir),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false

		if _, err := strconv.ParseFloat(*s.billableRate, 64); err != nil {
			return s, errStatus("Invalid billable rate %q", *s.billableRate)
		}
		if _, err := strconv.Atoi(*s.rangeDays); err != nil {
			return s, errStatus("Invalid range days %q", *s.rangeDays)
		}

		s.store.SetSetting("billable_rate", *s.billableRate)
		s.store.SetSetting("default_range_days", *s.rangeDays)
		s.store.SetSetting("week_start", *s.weekStart)
		s.store.SetSetting("export_dir", *s.exportDir)

		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsSavedMsg{} },
		)
	}
	return s, cmd
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Edit Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()))
	}

	title := titleStyle.Render("Settings")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for _, st := range s.settings {
		rows = append(rows, fmt.Sprintf("  %-22s %s", st.Key, highlightStyle.Render(st.Value)))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
