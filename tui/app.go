package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"sicksense-cli/config"
	"sicksense-cli/locator"
	"sicksense-cli/model"
	"sicksense-cli/service"
	"sicksense-cli/session"
	"sicksense-cli/store"
)

type appState int

const (
	stateLoadingCatalog appState = iota
	stateLocation
	stateLoadingSymptoms
	stateSelectSymptoms
	stateSelectSeverity
	stateSelectOnset
	stateDiagnosis
	stateConfirm
	stateSubmitting
	stateSubmitted
	stateError
)

const onsetDays = 7

// Deps are the collaborators the report flow runs against.
type Deps struct {
	Client   *service.Client
	Sessions *session.Manager
	Config   *config.Config
	Logger   *slog.Logger
	Clock    clockwork.Clock
}

type appModel struct {
	client   *service.Client
	sessions *session.Manager
	logger   *slog.Logger
	clock    clockwork.Clock

	preferredBuilding string

	state     appState
	lastState appState
	err       error
	notice    string

	width  int
	height int

	selector   *locator.Selector
	selection  locator.Selection
	reloading  bool
	seatCursor int

	buildingList list.Model
	roomList     list.Model
	seatInput    textinput.Model

	symptoms     []model.Symptom
	chosen       map[string]bool
	symptomList  list.Model
	severityList list.Model
	onsetList    list.Model
	diseaseInput textinput.Model

	severity model.SeverityLevel
	onset    time.Time
	report   model.HealthReport

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type catalogMsg struct {
	locations []model.Location
	err       error
}

type symptomsMsg struct {
	symptoms []model.Symptom
	err      error
}

type reportMsg struct {
	report model.HealthReport
	err    error
}

func New(deps Deps) tea.Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	m := appModel{
		client:   deps.Client,
		sessions: deps.Sessions,
		logger:   logger,
		clock:    clock,
		state:    stateLoadingCatalog,
		chosen:   make(map[string]bool),
	}
	if deps.Config != nil {
		m.preferredBuilding = deps.Config.Building
	}

	m.selector = locator.New(locator.Props{
		Loading: true,
		OnChange: func(sel locator.Selection) {
			logger.Debug("location changed",
				"building", sel.Building,
				"room", sel.Room,
				"seat", sel.SeatNumber,
				"valid", sel.Valid(),
			)
		},
	})

	m.buildingList = newList("Select Building")
	m.roomList = newList("Select Room")
	m.symptomList = newList("Symptoms")
	m.severityList = newList("Severity")
	m.severityList.SetItems(buildSeverityItems())
	m.onsetList = newList("When did it start?")

	m.seatInput = textinput.New()
	m.seatInput.Prompt = "Seat: "
	m.seatInput.Placeholder = "e.g. A1"
	m.seatInput.CharLimit = minSeatChars

	m.diseaseInput = textinput.New()
	m.diseaseInput.Prompt = "Diagnosis: "
	m.diseaseInput.Placeholder = "leave empty if not confirmed by a doctor"
	m.diseaseInput.CharLimit = 80

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCatalogCmd(true), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.state == stateSelectSymptoms && msg.Type == tea.KeySpace {
			cmd := m.toggleSymptom()
			return m, cmd
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		// fallthrough to component update
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case catalogMsg:
		first := m.state == stateLoadingCatalog
		m.reloading = false
		m.selector.SetLoading(false)
		if msg.err != nil {
			m.logger.Error("load locations", "err", msg.err)
			return m, errWithReturnCmd(msg.err, stateLocation)
		}
		catalog := locator.NewCatalog(msg.locations)
		if err := catalog.Validate(); err != nil {
			m.logger.Warn("location catalog has issues", "err", err)
		}
		m.selector.SetCatalog(catalog)
		m.seatInput.CharLimit = seatCharLimit(catalog)
		m.state = stateLocation
		if first {
			m.prefill()
		}
		cmd := m.syncLocation()
		return m, cmd

	case symptomsMsg:
		if msg.err != nil {
			m.logger.Error("load symptoms", "err", msg.err)
			return m, errCmd(msg.err)
		}
		if len(msg.symptoms) == 0 {
			return m, errWithReturnCmd(errors.New("no symptoms available to report"), stateLocation)
		}
		m.symptoms = msg.symptoms
		m.symptomList.SetItems(buildSymptomItems(m.symptoms, m.chosen))
		m.state = stateSelectSymptoms
		return m, nil

	case reportMsg:
		if msg.err != nil {
			m.logger.Error("submit report", "err", msg.err)
			if service.IsUnauthorized(msg.err) {
				return m, errWithReturnCmd(fmt.Errorf("%w: run `sicksense login` and try again", msg.err), stateConfirm)
			}
			return m, errCmd(msg.err)
		}
		m.logger.Info("report submitted", "id", msg.report.ID, "seat", m.selection.SeatID)
		m.report = msg.report
		m.state = stateSubmitted
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateLocation:
		return m.updateLocation(msg)
	case stateSelectSymptoms:
		m.symptomList, cmd = m.symptomList.Update(msg)
	case stateSelectSeverity:
		m.severityList, cmd = m.severityList.Update(msg)
	case stateSelectOnset:
		m.onsetList, cmd = m.onsetList.Update(msg)
	case stateDiagnosis:
		m.diseaseInput, cmd = m.diseaseInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingCatalog, stateLoadingSymptoms, stateSubmitting:
		return header + "\n\n" + m.loadingView()
	case stateLocation:
		return header + "\n\n" + m.locationView()
	case stateSelectSymptoms:
		return header + "\n\n" + m.symptomList.View() + m.noticeView()
	case stateSelectSeverity:
		return header + "\n\n" + m.severityList.View()
	case stateSelectOnset:
		return header + "\n\n" + m.onsetList.View()
	case stateDiagnosis:
		return header + "\n\n" + m.diagnosisView()
	case stateConfirm:
		return header + "\n\n" + m.confirmView()
	case stateSubmitted:
		return header + "\n\n" + m.submittedView()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("SickSense • Report symptoms")
	sub := []string{}
	if m.sessions != nil {
		if s, ok := m.sessions.Current(); ok {
			name := s.User.FullName
			if name == "" {
				name = s.User.Email
			}
			if name != "" {
				sub = append(sub, "Signed in: "+name)
			}
		}
	}
	if m.state != stateLocation {
		if m.selection.Building != "" {
			sub = append(sub, "Building: "+m.selection.Building)
		}
		if m.selection.Room != "" {
			sub = append(sub, "Room: "+m.selection.Room)
		}
		if m.selection.Valid() {
			sub = append(sub, "Seat: "+m.selection.SeatNumber)
		}
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}

	hints := "ctrl+c quit • esc back"
	switch m.state {
	case stateLocation:
		switch m.selector.Stage() {
		case locator.StageBuilding:
			hints = "ctrl+c quit • type to filter • enter select • ctrl+l reload"
		case locator.StageRoom:
			hints = "ctrl+c quit • esc back • type to filter • enter select • ctrl+b change building"
		case locator.StageSeat:
			hints = "ctrl+c quit • esc back • arrows move • space pick • enter continue • ctrl+b building • ctrl+r room"
		}
	case stateSelectSymptoms:
		hints = "ctrl+c quit • esc back • type to filter • space toggle • enter continue"
	case stateSelectSeverity, stateSelectOnset:
		hints = "ctrl+c quit • esc back • enter select"
	case stateDiagnosis:
		hints = "ctrl+c quit • esc back • enter continue"
	case stateConfirm:
		hints = "ctrl+c quit • esc back • enter submit"
	case stateSubmitted:
		hints = "ctrl+c quit • enter report again"
	}

	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	}

	if m.state == stateLocation {
		return m.handleLocationKey(msg)
	}
	if msg.Type != tea.KeyEnter {
		return m, nil, false
	}

	switch m.state {
	case stateSelectSymptoms:
		if len(m.chosenSymptomIDs()) == 0 {
			m.notice = "Pick at least one symptom with space."
			return m, nil, true
		}
		m.notice = ""
		m.state = stateSelectSeverity
		return m, nil, true
	case stateSelectSeverity:
		item, ok := m.severityList.SelectedItem().(severityItem)
		if !ok {
			return m, nil, true
		}
		m.severity = item.level
		m.onsetList.SetItems(buildOnsetItems(m.clock.Now()))
		m.state = stateSelectOnset
		return m, nil, true
	case stateSelectOnset:
		item, ok := m.onsetList.SelectedItem().(dateItem)
		if !ok {
			return m, nil, true
		}
		m.onset = item.date
		m.state = stateDiagnosis
		cmd := m.diseaseInput.Focus()
		return m, cmd, true
	case stateDiagnosis:
		m.diseaseInput.Blur()
		m.state = stateConfirm
		return m, nil, true
	case stateConfirm:
		m.state = stateSubmitting
		return m, tea.Batch(m.submitReportCmd(m.buildReport()), m.spinner.Tick), true
	case stateSubmitted:
		m.resetReport()
		m.state = stateLocation
		cmd := m.syncLocation()
		return m, cmd, true
	}
	return m, nil, false
}

func (m appModel) goBack() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateLocation:
		if m.selector.Back() {
			m.notice = ""
			cmd := m.syncLocation()
			return m, cmd
		}
	case stateSelectSymptoms:
		m.notice = ""
		m.state = stateLocation
		cmd := m.syncLocation()
		return m, cmd
	case stateSelectSeverity:
		m.state = stateSelectSymptoms
	case stateSelectOnset:
		m.state = stateSelectSeverity
	case stateDiagnosis:
		m.diseaseInput.Blur()
		m.state = stateSelectOnset
	case stateConfirm:
		m.state = stateDiagnosis
		cmd := m.diseaseInput.Focus()
		return m, cmd
	case stateError:
		m.state = m.lastState
		if m.state == stateLocation {
			cmd := m.syncLocation()
			return m, cmd
		}
	}
	return m, nil
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateLocation:
		if m.selector.View().Status != locator.StatusReady {
			return nil
		}
		switch m.selector.Stage() {
		case locator.StageBuilding:
			return &m.buildingList
		case locator.StageRoom:
			return &m.roomList
		}
		return nil
	case stateSelectSymptoms:
		return &m.symptomList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingCatalog ||
		m.state == stateLoadingSymptoms ||
		m.state == stateSubmitting ||
		(m.state == stateLocation && m.reloading)
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingCatalog, stateLocation:
		title = "Loading locations"
	case stateLoadingSymptoms:
		title = "Loading symptoms"
	case stateSubmitting:
		title = "Submitting report"
	}

	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Talking to SickSense..."))
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 8
	if h < 6 {
		h = 6
	}
	m.buildingList.SetSize(m.width, h)
	m.roomList.SetSize(m.width, h)
	m.symptomList.SetSize(m.width, h)
	m.severityList.SetSize(m.width, h)
	m.onsetList.SetSize(m.width, h)
	m.seatInput.Width = max(10, m.width/3)
	m.diseaseInput.Width = max(20, m.width-16)
}

func (m appModel) noticeView() string {
	if m.notice == "" {
		return ""
	}
	return "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(m.notice)
}

func (m appModel) diagnosisView() string {
	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render("Has a doctor confirmed a disease?"),
		"",
		m.diseaseInput.View(),
		"",
		hint("Type the disease name, or press enter to skip."),
	}, "\n")
}

func (m appModel) confirmView() string {
	report := m.buildReport()
	label := lipgloss.NewStyle().Bold(true).Width(12)
	rows := []string{
		label.Render("Location") + fmt.Sprintf("%s • %s • seat %s", report.Location.Building, report.Location.Room, report.Location.SeatNumber),
		label.Render("Symptoms") + strings.Join(m.chosenSymptomNames(), ", "),
		label.Render("Severity") + string(report.Severity),
		label.Render("Onset") + report.DateOfOnset,
	}
	if report.DiseaseName != nil {
		rows = append(rows, label.Render("Diagnosis")+*report.DiseaseName)
	} else {
		rows = append(rows, label.Render("Diagnosis")+"not confirmed")
	}

	panel := lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(rows, "\n"))
	return panel + "\n\n" + hint("Press enter to submit or esc to edit.")
}

func (m appModel) submittedView() string {
	chip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("2")).
		Padding(0, 2)
	lines := []string{
		chip.Render("Report received"),
		"",
		fmt.Sprintf("Reference: %s", m.report.ID),
	}
	if m.report.Status != "" {
		lines = append(lines, fmt.Sprintf("Status: %s", m.report.Status))
	}
	lines = append(lines, "", hint("Thanks for helping keep the school healthy. Get some rest."))
	return strings.Join(lines, "\n")
}

func (m *appModel) toggleSymptom() tea.Cmd {
	item, ok := m.symptomList.SelectedItem().(symptomItem)
	if !ok {
		return nil
	}
	id := item.symptom.ID
	m.chosen[id] = !m.chosen[id]
	if !m.chosen[id] {
		delete(m.chosen, id)
	}
	m.notice = ""
	for i, existing := range m.symptomList.Items() {
		if s, ok := existing.(symptomItem); ok && s.symptom.ID == id {
			return m.symptomList.SetItem(i, symptomItem{symptom: s.symptom, selected: m.chosen[id]})
		}
	}
	return nil
}

func (m appModel) chosenSymptomIDs() []string {
	ids := []string{}
	for _, s := range m.symptoms {
		if m.chosen[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func (m appModel) chosenSymptomNames() []string {
	names := []string{}
	for _, s := range m.symptoms {
		if m.chosen[s.ID] {
			names = append(names, s.Name)
		}
	}
	return names
}

func (m appModel) buildReport() model.CreateHealthReport {
	var user model.User
	if m.sessions != nil {
		if s, ok := m.sessions.Current(); ok {
			user = s.User
		}
	}
	report := model.CreateHealthReport{
		StudentUserID:  user.ID,
		UserGradeLevel: user.GradeLevel,
		GradeLevel:     user.GradeLevel,
		Location:       m.selection.ReportLocation(),
		Severity:       m.severity,
		SeatID:         m.selection.SeatID,
		Symptoms:       m.chosenSymptomIDs(),
	}
	if !m.onset.IsZero() {
		report.DateOfOnset = m.onset.Format(time.DateOnly)
	}
	if name := strings.TrimSpace(m.diseaseInput.Value()); name != "" {
		report.ConfirmedDisease = true
		report.DiseaseName = &name
	}
	return report
}

// resetReport clears the symptom answers and keeps the seat for the next report.
func (m *appModel) resetReport() {
	m.chosen = make(map[string]bool)
	m.symptomList.ResetFilter()
	m.symptomList.SetItems(buildSymptomItems(m.symptoms, m.chosen))
	m.severity = ""
	m.onset = time.Time{}
	m.diseaseInput.SetValue("")
	m.report = model.HealthReport{}
	m.notice = ""
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithReturnCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{
			err:            err,
			returnState:    returnState,
			returnStateSet: true,
		}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingCatalog, stateLoadingSymptoms:
		return stateLocation
	case stateSubmitting:
		return stateConfirm
	case stateError:
		return stateLocation
	default:
		return state
	}
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func (m appModel) fetchCatalogCmd(useCache bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if useCache {
			if cached, fresh, err := store.LoadCatalogCache(); err == nil && fresh && len(cached) > 0 {
				return catalogMsg{locations: cached}
			}
		}
		if client == nil {
			return catalogMsg{err: errors.New("no api client configured")}
		}
		ctx := context.Background()
		locations, err := client.GetLocations(ctx)
		if err == nil && len(locations) > 0 {
			_ = store.SaveCatalogCache(locations)
		}
		return catalogMsg{locations: locations, err: err}
	}
}

func (m appModel) fetchSymptomsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if cached, fresh, err := store.LoadSymptomCache(); err == nil && fresh && len(cached) > 0 {
			return symptomsMsg{symptoms: cached}
		}
		if client == nil {
			return symptomsMsg{err: errors.New("no api client configured")}
		}
		ctx := context.Background()
		symptoms, err := client.GetSymptoms(ctx)
		if err == nil && len(symptoms) > 0 {
			_ = store.SaveSymptomCache(symptoms)
		}
		return symptomsMsg{symptoms: symptoms, err: err}
	}
}

func (m appModel) submitReportCmd(report model.CreateHealthReport) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return reportMsg{err: errors.New("no api client configured")}
		}
		ctx := context.Background()
		created, err := client.SubmitReport(ctx, report)
		return reportMsg{report: created, err: err}
	}
}

type dateItem struct {
	date  time.Time
	today bool
}

func (d dateItem) Title() string {
	if d.today {
		return fmt.Sprintf("%s • %s (Today)", d.date.Format("Mon"), d.date.Format("02/01"))
	}
	return fmt.Sprintf("%s • %s", d.date.Format("Mon"), d.date.Format("02/01"))
}

func (d dateItem) Description() string {
	return d.date.Format(time.DateOnly)
}

func (d dateItem) FilterValue() string {
	return d.Title()
}

// buildOnsetItems lists today first, then the previous days.
func buildOnsetItems(now time.Time) []list.Item {
	start := truncateDate(now)
	items := make([]list.Item, 0, onsetDays)
	for i := 0; i < onsetDays; i++ {
		day := start.AddDate(0, 0, -i)
		items = append(items, dateItem{date: day, today: isSameDay(day, now)})
	}
	return items
}

func isSameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type symptomItem struct {
	symptom  model.Symptom
	selected bool
}

func (s symptomItem) Title() string {
	box := "[ ]"
	if s.selected {
		box = "[x]"
	}
	if s.symptom.Icon != "" {
		return fmt.Sprintf("%s %s %s", box, s.symptom.Icon, s.symptom.Name)
	}
	return fmt.Sprintf("%s %s", box, s.symptom.Name)
}

func (s symptomItem) Description() string {
	return string(s.symptom.Category)
}

func (s symptomItem) FilterValue() string {
	return strings.ToLower(s.symptom.Name + " " + string(s.symptom.Category))
}

func buildSymptomItems(symptoms []model.Symptom, chosen map[string]bool) []list.Item {
	items := make([]list.Item, 0, len(symptoms))
	for _, s := range symptoms {
		items = append(items, symptomItem{symptom: s, selected: chosen[s.ID]})
	}
	return items
}

type severityItem struct {
	level model.SeverityLevel
}

func (s severityItem) Title() string {
	name := string(s.level)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func (s severityItem) Description() string {
	switch s.level {
	case model.SeverityMild:
		return "Noticeable, but you can follow classes"
	case model.SeverityModerate:
		return "Hard to concentrate, you may need to rest"
	case model.SeveritySevere:
		return "You need care or cannot attend"
	default:
		return ""
	}
}

func (s severityItem) FilterValue() string {
	return string(s.level)
}

func buildSeverityItems() []list.Item {
	items := make([]list.Item, 0, len(model.SeverityLevels))
	for _, level := range model.SeverityLevels {
		items = append(items, severityItem{level: level})
	}
	return items
}
