package tui

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"sicksense-cli/config"
	"sicksense-cli/locator"
	"sicksense-cli/model"
	"sicksense-cli/service"
	"sicksense-cli/store"
)

type testItem struct {
	value string
}

func (t testItem) Title() string       { return t.value }
func (t testItem) Description() string { return "" }
func (t testItem) FilterValue() string { return strings.ToLower(t.value) }

func setTestDirs(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root+"/config")
	t.Setenv("XDG_CACHE_HOME", root+"/cache")
}

func testLocations() []model.Location {
	return []model.Location{
		{
			Building: "Main Building",
			Rooms: []model.Room{
				{Name: "101", Seats: []model.Seat{
					{Number: "A1", ID: "67fec0af-4c1b-4a3b-9d7e-1f0a2b3c4d5e"},
					{Number: "A2", ID: "c5b1f8e9-2d3a-4b5c-8e9f-0a1b2c3d4e5f"},
				}},
				{Name: "102", Seats: []model.Seat{
					{Number: "B1", ID: "0d9c8b7a-6f5e-4d3c-2b1a-0f9e8d7c6b5a"},
				}},
			},
		},
		{
			Building: "Science Building",
			Rooms: []model.Room{
				{Name: "Lab-1", Seats: []model.Seat{
					{Number: "A1", ID: "5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d"},
				}},
			},
		},
	}
}

func testSymptoms() []model.Symptom {
	return []model.Symptom{
		{ID: "fever", Name: "Fever", Category: model.CategoryGeneral},
		{ID: "cough", Name: "Cough", Category: model.CategoryRespiratory},
	}
}

func newTestModel(t *testing.T, deps Deps) appModel {
	t.Helper()
	if deps.Clock == nil {
		deps.Clock = clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC))
	}
	m := New(deps).(appModel)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(appModel)
}

func loaded(t *testing.T, m appModel, locations []model.Location) appModel {
	t.Helper()
	next, _ := m.Update(catalogMsg{locations: locations})
	return next.(appModel)
}

func press(t *testing.T, m appModel, keys ...tea.KeyMsg) appModel {
	t.Helper()
	var next tea.Model = m
	for _, key := range keys {
		next, _ = next.Update(key)
	}
	return next.(appModel)
}

func typeText(t *testing.T, m appModel, text string) appModel {
	t.Helper()
	for _, r := range text {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace}
	right = tea.KeyMsg{Type: tea.KeyRight}
)

func TestHandleFilterInput_AppendsRunes(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.buildingList.FilterValue(); got != "s" {
		t.Fatalf("expected filter value to be %q, got %q", "s", got)
	}

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.buildingList.FilterValue(); got != "sc" {
		t.Fatalf("expected filter value to be %q, got %q", "sc", got)
	}
}

func TestHandleFilterInput_Backspace(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace to be handled")
	}
	if got := m.buildingList.FilterValue(); got != "m" {
		t.Fatalf("expected filter value to be %q, got %q", "m", got)
	}
}

func TestHandleFilterInput_SeatStageTypesIntoInput(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	m = press(t, m, enter, enter)

	if m.selector.Stage() != locator.StageSeat {
		t.Fatalf("expected seat stage, got %s", m.selector.Stage())
	}
	if m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}) {
		t.Fatal("expected seat input not to be treated as a list filter")
	}
}

func TestCaseInsensitiveFilter(t *testing.T) {
	l := newList("Test")
	l.SetItems([]list.Item{testItem{value: "Main Building"}, testItem{value: "Science Building"}})
	l.SetFilterText("SCI")

	visible := l.VisibleItems()
	if len(visible) != 1 || visible[0].(testItem).value != "Science Building" {
		t.Fatalf("expected science building to match, got %+v", visible)
	}
}

func TestLocationFlow_TypedSeat(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())

	if m.state != stateLocation {
		t.Fatalf("expected location state, got %d", m.state)
	}
	m = press(t, m, enter)
	if got := m.selection; got != (locator.Selection{Building: "Main Building"}) {
		t.Fatalf("unexpected selection after building: %+v", got)
	}
	m = press(t, m, enter)
	if m.selection.Room != "101" || m.selector.Stage() != locator.StageSeat {
		t.Fatalf("unexpected selection after room: %+v stage=%s", m.selection, m.selector.Stage())
	}

	m = typeText(t, m, "a")
	if m.selection.SeatNumber != "A" || m.selection.Valid() {
		t.Fatalf("expected partial invalid seat, got %+v", m.selection)
	}
	if got := m.seatInput.Value(); got != "A" {
		t.Fatalf("expected input to echo uppercased label, got %q", got)
	}

	m = press(t, m, enter)
	if m.state != stateLocation || !strings.Contains(m.notice, "not a valid seat") {
		t.Fatalf("expected to stay with invalid seat notice, got state=%d notice=%q", m.state, m.notice)
	}

	m = typeText(t, m, "1")
	if !m.selection.Valid() || m.selection.SeatID != "67fec0af-4c1b-4a3b-9d7e-1f0a2b3c4d5e" {
		t.Fatalf("expected A1 to resolve, got %+v", m.selection)
	}

	next, cmd := m.Update(enter)
	m = next.(appModel)
	if m.state != stateLoadingSymptoms || cmd == nil {
		t.Fatalf("expected symptoms to load, got state=%d", m.state)
	}

	recents, err := store.LoadRecentSelections()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(recents) != 1 || recents[0] != m.selection {
		t.Fatalf("expected seat to be remembered, got %+v", recents)
	}
}

func TestLocationFlow_TapSeatWithCursor(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	m = press(t, m, enter, enter, right, space)

	want := locator.Selection{
		Building:   "Main Building",
		Room:       "101",
		SeatNumber: "A2",
		SeatID:     "c5b1f8e9-2d3a-4b5c-8e9f-0a1b2c3d4e5f",
	}
	if m.selection != want {
		t.Fatalf("expected %+v, got %+v", want, m.selection)
	}
	if got := m.seatInput.Value(); got != "A2" {
		t.Fatalf("expected input to show tapped seat, got %q", got)
	}
}

func TestLocationFlow_BackAndChangeKeepSelection(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	m = press(t, m, enter, enter)
	m = typeText(t, m, "A1")
	selected := m.selection

	m = press(t, m, esc)
	if m.selector.Stage() != locator.StageRoom || m.selection != selected {
		t.Fatalf("expected room stage with selection intact, got stage=%s sel=%+v", m.selector.Stage(), m.selection)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	if m.selector.Stage() != locator.StageBuilding || m.selection != selected {
		t.Fatalf("expected building stage with selection intact, got stage=%s sel=%+v", m.selector.Stage(), m.selection)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.selector.Stage() != locator.StageRoom {
		t.Fatalf("expected room stage, got %s", m.selector.Stage())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, enter)
	if m.selection.Room != "102" || m.selection.SeatNumber != "" || m.selection.SeatID != "" {
		t.Fatalf("expected new room to clear the seat, got %+v", m.selection)
	}
}

func TestLocationFlow_FilterThenPickBuilding(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	m = typeText(t, m, "science")
	m = press(t, m, enter)

	if m.selection.Building != "Science Building" {
		t.Fatalf("expected filtered building to be picked, got %+v", m.selection)
	}
}

func TestLocationView_EmptyCatalog(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), nil)

	if got := m.selector.View().Status; got != locator.StatusEmpty {
		t.Fatalf("expected empty status, got %s", got)
	}
	if !strings.Contains(m.View(), "No locations") {
		t.Fatal("expected empty catalog panel")
	}
	m = press(t, m, enter)
	if m.selection != (locator.Selection{}) {
		t.Fatalf("expected no transition on empty catalog, got %+v", m.selection)
	}
}

func TestLocationView_StaleBuildingAfterReload(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	m = press(t, m, enter, enter)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(appModel)
	if cmd == nil || !m.reloading || m.selector.View().Status != locator.StatusLoading {
		t.Fatal("expected catalog reload to start")
	}

	m = loaded(t, m, testLocations()[1:])
	if got := m.selector.View().Status; got != locator.StatusBuildingNotFound {
		t.Fatalf("expected building not found, got %s", got)
	}
	if !strings.Contains(m.View(), "Building not found") {
		t.Fatal("expected building not found panel")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB}, enter)
	if m.selection.Building != "Science Building" {
		t.Fatalf("expected recovery through building stage, got %+v", m.selection)
	}
}

func TestLocationKeys_IgnoredWhileReloading(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	m = press(t, m, enter, enter, tea.KeyMsg{Type: tea.KeyCtrlL})
	if !m.reloading {
		t.Fatal("expected catalog reload to start")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB}, tea.KeyMsg{Type: tea.KeyCtrlR}, esc)
	if got := m.selector.Stage(); got != locator.StageSeat {
		t.Fatalf("expected seat stage while loading, got %s", got)
	}
	if got := m.selector.View().Status; got != locator.StatusLoading {
		t.Fatalf("expected loading status, got %s", got)
	}
}

func TestLocationKeys_IgnoredOnEmptyCatalog(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB}, esc)
	view := m.selector.View()
	if m.selector.Stage() != locator.StageBuilding || view.Stage != locator.StageBuilding {
		t.Fatalf("expected building stage, got %s", m.selector.Stage())
	}
	if view.Steps[0].State != locator.StepActive {
		t.Fatalf("expected building step active, got %v", view.Steps)
	}
	if view.Status != locator.StatusEmpty {
		t.Fatalf("expected empty status, got %s", view.Status)
	}
}

func TestLocationFlow_LongSeatLabel(t *testing.T) {
	setTestDirs(t)
	locations := []model.Location{{
		Building: "Auditorium",
		Rooms: []model.Room{{Name: "Hall", Seats: []model.Seat{
			{Number: "BALCONY-12", ID: "9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a"},
		}}},
	}}
	m := loaded(t, newTestModel(t, Deps{}), locations)
	if got := m.seatInput.CharLimit; got != len("BALCONY-12") {
		t.Fatalf("expected char limit to fit the longest label, got %d", got)
	}

	m = press(t, m, enter, enter)
	m = typeText(t, m, "balcony-12")
	if !m.selection.Valid() || m.selection.SeatID != "9f8e7d6c-5b4a-4392-8170-6f5e4d3c2b1a" {
		t.Fatalf("expected long label to resolve, got %+v", m.selection)
	}

	m = loaded(t, m, testLocations())
	if got := m.seatInput.CharLimit; got != minSeatChars {
		t.Fatalf("expected default char limit for short labels, got %d", got)
	}
}

func TestPrefill_RecentSelection(t *testing.T) {
	setTestDirs(t)
	recent := locator.Selection{
		Building:   "Main Building",
		Room:       "102",
		SeatNumber: "B1",
		SeatID:     "0d9c8b7a-6f5e-4d3c-2b1a-0f9e8d7c6b5a",
	}
	if err := store.RememberSelection(recent); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	if m.selection != recent {
		t.Fatalf("expected recent selection, got %+v", m.selection)
	}
	if m.selector.Stage() != locator.StageSeat {
		t.Fatalf("expected seat stage, got %s", m.selector.Stage())
	}
}

func TestPrefill_PreferredBuilding(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{Config: &config.Config{Building: "science building"}}), testLocations())

	if m.selection != (locator.Selection{Building: "Science Building"}) {
		t.Fatalf("expected preferred building, got %+v", m.selection)
	}
	if m.selector.Stage() != locator.StageRoom {
		t.Fatalf("expected room stage, got %s", m.selector.Stage())
	}
}

func TestReportFlow_BuildsSubmission(t *testing.T) {
	setTestDirs(t)
	m := loaded(t, newTestModel(t, Deps{}), testLocations())
	m = press(t, m, enter, enter)
	m = typeText(t, m, "a1")
	m = press(t, m, enter)

	next, _ := m.Update(symptomsMsg{symptoms: testSymptoms()})
	m = next.(appModel)
	if m.state != stateSelectSymptoms {
		t.Fatalf("expected symptom selection, got %d", m.state)
	}

	m = press(t, m, enter)
	if m.state != stateSelectSymptoms || m.notice == "" {
		t.Fatal("expected at least one symptom to be required")
	}

	m = press(t, m, space, enter)
	if m.state != stateSelectSeverity {
		t.Fatalf("expected severity, got %d", m.state)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, enter)
	if m.severity != model.SeverityModerate {
		t.Fatalf("expected moderate, got %q", m.severity)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, enter)
	if got := m.onset.Format(time.DateOnly); got != "2026-10-18" {
		t.Fatalf("expected yesterday as onset, got %s", got)
	}
	if m.state != stateDiagnosis {
		t.Fatalf("expected diagnosis, got %d", m.state)
	}
	m = typeText(t, m, "Flu")
	m = press(t, m, enter)
	if m.state != stateConfirm {
		t.Fatalf("expected confirm, got %d", m.state)
	}

	report := m.buildReport()
	if report.SeatID != "67fec0af-4c1b-4a3b-9d7e-1f0a2b3c4d5e" || report.Location.SeatNumber != "A1" {
		t.Fatalf("unexpected location: %+v", report.Location)
	}
	if len(report.Symptoms) != 1 || report.Symptoms[0] != "fever" {
		t.Fatalf("unexpected symptoms: %v", report.Symptoms)
	}
	if !report.ConfirmedDisease || report.DiseaseName == nil || *report.DiseaseName != "Flu" {
		t.Fatalf("unexpected diagnosis: %+v", report)
	}

	next, cmd := m.Update(enter)
	m = next.(appModel)
	if m.state != stateSubmitting || cmd == nil {
		t.Fatalf("expected submission to start, got %d", m.state)
	}

	next, _ = m.Update(reportMsg{report: model.HealthReport{ID: "r-1", Status: model.ReportPending}})
	m = next.(appModel)
	if m.state != stateSubmitted || !strings.Contains(m.View(), "r-1") {
		t.Fatalf("expected submitted view, got %d", m.state)
	}

	m = press(t, m, enter)
	if m.state != stateLocation || len(m.chosen) != 0 || !m.selection.Valid() {
		t.Fatalf("expected a fresh report at the same seat, got state=%d chosen=%v", m.state, m.chosen)
	}
}

func TestSubmitError_ReturnsToConfirm(t *testing.T) {
	setTestDirs(t)
	m := newTestModel(t, Deps{})
	m.state = stateSubmitting

	next, cmd := m.Update(reportMsg{err: &service.APIError{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"}})
	m = next.(appModel)
	if cmd == nil {
		t.Fatal("expected error command")
	}
	next, _ = m.Update(cmd())
	m = next.(appModel)
	if m.state != stateError || !strings.Contains(m.err.Error(), "sicksense login") {
		t.Fatalf("expected login hint, got state=%d err=%v", m.state, m.err)
	}

	m = press(t, m, esc)
	if m.state != stateConfirm {
		t.Fatalf("expected confirm after esc, got %d", m.state)
	}
}

func TestCatalogError_RecoversToEmptyPicker(t *testing.T) {
	setTestDirs(t)
	m := newTestModel(t, Deps{})

	next, cmd := m.Update(catalogMsg{err: errors.New("boom")})
	m = next.(appModel)
	next, _ = m.Update(cmd())
	m = next.(appModel)
	if m.state != stateError {
		t.Fatalf("expected error state, got %d", m.state)
	}
	m = press(t, m, esc)
	if m.state != stateLocation || m.selector.View().Status != locator.StatusEmpty {
		t.Fatalf("expected empty picker, got state=%d", m.state)
	}
}

func TestBuildOnsetItems(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	items := buildOnsetItems(now)

	if len(items) != onsetDays {
		t.Fatalf("expected %d items, got %d", onsetDays, len(items))
	}
	first := items[0].(dateItem)
	if !first.today || first.Description() != "2026-10-19" {
		t.Fatalf("unexpected first item: %+v", first)
	}
	last := items[len(items)-1].(dateItem)
	if last.today || last.Description() != "2026-10-13" {
		t.Fatalf("unexpected last item: %+v", last)
	}
}

func TestRenderSteps(t *testing.T) {
	steps := [3]locator.Step{
		{Stage: locator.StageBuilding, State: locator.StepDone},
		{Stage: locator.StageRoom, State: locator.StepActive},
		{Stage: locator.StageSeat, State: locator.StepPending},
	}
	out := renderSteps(steps, locator.Selection{Building: "Main Building"})

	for _, want := range []string{"Main Building", "2 Room", "3 Seat"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
