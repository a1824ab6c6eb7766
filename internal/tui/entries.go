package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/worklens/worklens/internal/analytics"
	"github.com/worklens/worklens/internal/store"
)

// entriesChangedMsg tells the app the record set changed and every view
// needs fresh data.
type entriesChangedMsg struct{}

// entriesModel lists filtered entries and hosts the two forms: the
// filter editor and the new-entry editor.
type entriesModel struct {
	store  *store.Store
	width  int
	height int

	entries  []analytics.TimeEntry
	criteria analytics.Criteria
	filtered []analytics.TimeEntry
	cursor   int

	projects []store.Project
	users    []store.User

	formActive bool
	form       *huh.Form
	formType   string // "filter", "entry"

	// Form field pointers (survive value copies)
	fDateStart *string
	fDateEnd   *string
	fProject   *string
	fUser      *string
	fWorkType  *string
	fClient    *string
	fMinHours  *string
	fMaxHours  *string

	fDate  *string
	fHours *string
	fTask  *string
	fDesc  *string
}

func newEntriesModel(s *store.Store) entriesModel {
	days := 30
	if s != nil {
		days = s.GetIntSetting("default_range_days", 30)
	}
	ds, de, pr, us, wt, cl, mn, mx := "", "", "", "", "", "", "", ""
	d, h, task, desc := "", "", "", ""
	return entriesModel{
		store:      s,
		criteria:   criteriaFor(lastNDays(days)),
		fDateStart: &ds, fDateEnd: &de, fProject: &pr, fUser: &us,
		fWorkType: &wt, fClient: &cl, fMinHours: &mn, fMaxHours: &mx,
		fDate: &d, fHours: &h, fTask: &task, fDesc: &desc,
	}
}

func (m *entriesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type entriesRefsMsg struct {
	projects []store.Project
	users    []store.User
}

// refresh reloads the project/user reference lists used by the forms.
func (m entriesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, _ := m.store.ListProjects(true)
		users, _ := m.store.ListUsers()
		return entriesRefsMsg{projects: projects, users: users}
	}
}

func (m entriesModel) applyFilter() entriesModel {
	m.cursor = 0
	filtered, err := analytics.Filter(m.entries, m.criteria)
	if err != nil {
		m.filtered = nil
		return m
	}
	m.filtered = filtered
	return m
}

func (m entriesModel) update(msg tea.Msg) (entriesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case entriesLoadedMsg:
		m.entries = msg.entries
		return m.applyFilter(), nil

	case entriesRefsMsg:
		m.projects = msg.projects
		m.users = msg.users
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Filter):
			return m.showFilterForm()
		case key.Matches(msg, keys.New):
			return m.showEntryForm()
		case key.Matches(msg, keys.Delete):
			if m.cursor < len(m.filtered) {
				id := m.filtered[m.cursor].ID
				if err := m.store.DeleteEntry(id); err != nil {
					return m, func() tea.Msg {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
				}
				return m, func() tea.Msg { return entriesChangedMsg{} }
			}
		}
	}
	return m, nil
}

func projectOptions(projects []store.Project) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("All projects", "")}
	for _, p := range projects {
		opts = append(opts, huh.NewOption(p.Name, strconv.FormatInt(p.ID, 10)))
	}
	return opts
}

func userOptions(users []store.User) []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("All users", "")}
	for _, u := range users {
		opts = append(opts, huh.NewOption(u.Name, strconv.FormatInt(u.ID, 10)))
	}
	return opts
}

func workTypeOptions(withAll bool) []huh.Option[string] {
	var opts []huh.Option[string]
	if withAll {
		opts = append(opts, huh.NewOption("All types", ""))
	}
	for _, wt := range analytics.WorkTypes {
		opts = append(opts, huh.NewOption(string(wt), string(wt)))
	}
	return opts
}

func (m entriesModel) showFilterForm() (entriesModel, tea.Cmd) {
	c := m.criteria
	*m.fDateStart = c.DateStart.Format("2006-01-02")
	*m.fDateEnd = c.DateEnd.Format("2006-01-02")
	*m.fProject, *m.fUser, *m.fWorkType, *m.fClient = "", "", "", ""
	*m.fMinHours, *m.fMaxHours = "", ""
	if c.ProjectID != nil {
		*m.fProject = strconv.FormatInt(*c.ProjectID, 10)
	}
	if c.UserID != nil {
		*m.fUser = strconv.FormatInt(*c.UserID, 10)
	}
	if c.WorkType != nil {
		*m.fWorkType = string(*c.WorkType)
	}
	if c.ClientName != nil {
		*m.fClient = *c.ClientName
	}
	if c.MinHours != nil {
		*m.fMinHours = strconv.FormatFloat(*c.MinHours, 'f', -1, 64)
	}
	if c.MaxHours != nil {
		*m.fMaxHours = strconv.FormatFloat(*c.MaxHours, 'f', -1, 64)
	}
	m.formType = "filter"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("From (YYYY-MM-DD)").Value(m.fDateStart),
			huh.NewInput().Title("To (YYYY-MM-DD)").Value(m.fDateEnd),
			huh.NewSelect[string]().Title("Project").Options(projectOptions(m.projects)...).Value(m.fProject),
			huh.NewSelect[string]().Title("User").Options(userOptions(m.users)...).Value(m.fUser),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Work type").Options(workTypeOptions(true)...).Value(m.fWorkType),
			huh.NewInput().Title("Client (blank = all)").Value(m.fClient),
			huh.NewInput().Title("Min hours (blank = none)").Value(m.fMinHours),
			huh.NewInput().Title("Max hours (blank = none)").Value(m.fMaxHours),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m entriesModel) showEntryForm() (entriesModel, tea.Cmd) {
	if len(m.projects) == 0 || len(m.users) == 0 {
		return m, func() tea.Msg {
			return statusMsg{text: "Need at least one project and user before logging time", isError: true}
		}
	}
	*m.fDate = time.Now().UTC().Format("2006-01-02")
	*m.fHours = ""
	*m.fTask = ""
	*m.fDesc = ""
	*m.fProject = strconv.FormatInt(m.projects[0].ID, 10)
	*m.fUser = strconv.FormatInt(m.users[0].ID, 10)
	*m.fWorkType = string(analytics.WorkTypeWork)
	m.formType = "entry"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(m.fDate),
			huh.NewInput().Title("Hours").Value(m.fHours),
			huh.NewSelect[string]().Title("Project").Options(projectOptions(m.projects)[1:]...).Value(m.fProject),
			huh.NewSelect[string]().Title("User").Options(userOptions(m.users)[1:]...).Value(m.fUser),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Work type").Options(workTypeOptions(false)...).Value(m.fWorkType),
			huh.NewInput().Title("Task").Value(m.fTask),
			huh.NewInput().Title("Description").Value(m.fDesc),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m entriesModel) updateForm(msg tea.Msg) (entriesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "filter":
			return m.completeFilterForm()
		case "entry":
			return m.completeEntryForm()
		}
	}
	return m, cmd
}

// completeFilterForm parses the form fields into criteria. Invalid
// criteria leave the previous filter in place and surface an error.
func (m entriesModel) completeFilterForm() (entriesModel, tea.Cmd) {
	c := analytics.Criteria{}

	start, err := time.Parse("2006-01-02", *m.fDateStart)
	if err != nil {
		return m, errStatus("Invalid start date %q", *m.fDateStart)
	}
	end, err := time.Parse("2006-01-02", *m.fDateEnd)
	if err != nil {
		return m, errStatus("Invalid end date %q", *m.fDateEnd)
	}
	c.DateStart, c.DateEnd = start, end

	if *m.fProject != "" {
		id, _ := strconv.ParseInt(*m.fProject, 10, 64)
		c.ProjectID = &id
	}
	if *m.fUser != "" {
		id, _ := strconv.ParseInt(*m.fUser, 10, 64)
		c.UserID = &id
	}
	if *m.fWorkType != "" {
		wt := analytics.WorkType(*m.fWorkType)
		c.WorkType = &wt
	}
	if *m.fClient != "" {
		client := *m.fClient
		c.ClientName = &client
	}
	if *m.fMinHours != "" {
		v, err := strconv.ParseFloat(*m.fMinHours, 64)
		if err != nil {
			return m, errStatus("Invalid min hours %q", *m.fMinHours)
		}
		c.MinHours = &v
	}
	if *m.fMaxHours != "" {
		v, err := strconv.ParseFloat(*m.fMaxHours, 64)
		if err != nil {
			return m, errStatus("Invalid max hours %q", *m.fMaxHours)
		}
		c.MaxHours = &v
	}

	if err := c.Validate(); err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Filter rejected: %v", err), isError: true}
		}
	}

	m.criteria = c
	return m.applyFilter(), func() tea.Msg {
		return statusMsg{text: "Filter applied"}
	}
}

func (m entriesModel) completeEntryForm() (entriesModel, tea.Cmd) {
	d, err := time.Parse("2006-01-02", *m.fDate)
	if err != nil {
		return m, errStatus("Invalid date %q", *m.fDate)
	}
	projectID, _ := strconv.ParseInt(*m.fProject, 10, 64)
	userID, _ := strconv.ParseInt(*m.fUser, 10, 64)

	_, err = m.store.CreateEntry(store.EntryRecord{
		ProjectID:   projectID,
		UserID:      userID,
		Date:        d,
		Hours:       strings.TrimSpace(*m.fHours),
		TaskName:    *m.fTask,
		Description: *m.fDesc,
		WorkType:    *m.fWorkType,
	})
	if err != nil {
		return m, errStatus("Save error: %v", err)
	}
	return m, func() tea.Msg { return entriesChangedMsg{} }
}

func errStatus(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf(format, args...), isError: true}
	}
}

func (m entriesModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Filter Entries")
		if m.formType == "entry" {
			title = titleStyle.Render("Log Time")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()))
	}

	title := titleStyle.Render("Entries")
	count := mutedStyle.Render(fmt.Sprintf("%d of %d shown", len(m.filtered), len(m.entries)))
	label := mutedStyle.Render(rangeLabel(m.criteria.Range()))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", count, "  ", label)

	if len(m.filtered) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("No entries match the filter. Press f to adjust it, n to log time.")))
	}

	var rows []string
	rows = append(rows, header)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-12s %-16s %-14s %8s %-10s",
		"Date", "User", "Project", "Task", "Hours", "Type")))

	visible := min(len(m.filtered), max(5, m.height-12))
	for i, e := range m.filtered[:visible] {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-12s %-12s %-16s %-14s %8s %-10s",
			cursor, e.Date.Format("2006-01-02"), truncate(e.UserName, 12),
			truncate(e.ProjectName, 16), truncate(e.TaskName, 14),
			formatHours(e.Hours), e.WorkType,
		)))
	}
	if len(m.filtered) > visible {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", len(m.filtered)-visible)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  f: filter  n: new  x: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
