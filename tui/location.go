package tui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"sicksense-cli/locator"
	"sicksense-cli/model"
	"sicksense-cli/store"
)

const (
	seatColumns  = 6
	minSeatChars = 8
)

var errInvalidSeat = errors.New("not a valid seat")

// seatCharLimit fits the seat input to the longest label in the catalog.
func seatCharLimit(catalog *locator.Catalog) int {
	limit := minSeatChars
	for _, b := range catalog.Buildings() {
		for _, r := range b.Rooms {
			for _, seat := range r.Seats {
				limit = max(limit, utf8.RuneCountInString(strings.TrimSpace(seat.Number)))
			}
		}
	}
	return limit
}

func (m appModel) handleLocationKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+l":
		if m.reloading {
			return m, nil, true
		}
		m.reloading = true
		m.notice = ""
		m.selector.SetLoading(true)
		return m, tea.Batch(m.fetchCatalogCmd(false), m.spinner.Tick), true
	case "ctrl+b":
		if err := m.selector.ChangeBuilding(); err != nil {
			return m, nil, true
		}
		m.notice = ""
		cmd := m.syncLocation()
		return m, cmd, true
	case "ctrl+r":
		if m.selection.Building == "" {
			return m, nil, true
		}
		if err := m.selector.ChangeRoom(); err != nil {
			return m, nil, true
		}
		m.notice = ""
		cmd := m.syncLocation()
		return m, cmd, true
	}

	if m.selector.View().Status != locator.StatusReady {
		return m, nil, msg.Type == tea.KeyEnter
	}

	switch m.selector.Stage() {
	case locator.StageBuilding:
		if msg.Type == tea.KeyEnter {
			item, ok := m.buildingList.SelectedItem().(buildingItem)
			if !ok {
				return m, nil, true
			}
			return m.apply(m.selector.PickBuilding(item.location.Building))
		}
	case locator.StageRoom:
		if msg.Type == tea.KeyEnter {
			item, ok := m.roomList.SelectedItem().(roomItem)
			if !ok {
				return m, nil, true
			}
			return m.apply(m.selector.PickRoom(item.room.Name))
		}
	case locator.StageSeat:
		switch msg.Type {
		case tea.KeyLeft:
			m.moveSeatCursor(-1)
			return m, nil, true
		case tea.KeyRight:
			m.moveSeatCursor(1)
			return m, nil, true
		case tea.KeyUp:
			m.moveSeatCursor(-seatColumns)
			return m, nil, true
		case tea.KeyDown:
			m.moveSeatCursor(seatColumns)
			return m, nil, true
		case tea.KeySpace:
			return m.tapSeat()
		case tea.KeyEnter:
			return m.continueFromSeat()
		}
	}
	return m, nil, false
}

// updateLocation forwards non-key-bound input to the active stage widget.
// Every edit of the seat input goes through EnterSeat.
func (m appModel) updateLocation(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.selector.Stage() {
	case locator.StageBuilding:
		m.buildingList, cmd = m.buildingList.Update(msg)
	case locator.StageRoom:
		m.roomList, cmd = m.roomList.Update(msg)
	case locator.StageSeat:
		before := m.seatInput.Value()
		m.seatInput, cmd = m.seatInput.Update(msg)
		after := m.seatInput.Value()
		if after == before {
			return m, cmd
		}
		next, err := m.selector.EnterSeat(strings.TrimSpace(after))
		if err != nil {
			m.notice = err.Error()
			return m, cmd
		}
		m.notice = ""
		cmd = tea.Batch(cmd, m.commit(next))
	}
	return m, cmd
}

func (m appModel) apply(next locator.Selection, err error) (tea.Model, tea.Cmd, bool) {
	if err != nil {
		m.notice = err.Error()
		return m, nil, true
	}
	m.notice = ""
	cmd := m.commit(next)
	return m, cmd, true
}

// commit stores the selection of record and hands it back to the selector.
func (m *appModel) commit(next locator.Selection) tea.Cmd {
	m.selection = next
	m.selector.SetSelection(next)
	return m.syncLocation()
}

// syncLocation rebuilds the widgets of the active stage from the selector view.
func (m *appModel) syncLocation() tea.Cmd {
	view := m.selector.View()
	switch view.Stage {
	case locator.StageBuilding:
		m.seatInput.Blur()
		m.buildingList.SetItems(buildBuildingItems(view.Buildings, m.selection.Building))
		for i, b := range view.Buildings {
			if b.Building == m.selection.Building {
				m.buildingList.Select(i)
				break
			}
		}
	case locator.StageRoom:
		m.seatInput.Blur()
		m.roomList.Title = "Select Room • " + m.selection.Building
		m.roomList.ResetFilter()
		m.roomList.SetItems(buildRoomItems(view.Rooms))
		for i, r := range view.Rooms {
			if r.Name == m.selection.Room {
				m.roomList.Select(i)
				break
			}
		}
	case locator.StageSeat:
		if m.seatInput.Value() != m.selection.SeatNumber {
			m.seatInput.SetValue(m.selection.SeatNumber)
		}
		if idx := seatIndex(view.Seats, m.selection.SeatID); idx >= 0 {
			m.seatCursor = idx
		} else if m.seatCursor >= len(view.Seats) {
			m.seatCursor = 0
		}
		return m.seatInput.Focus()
	}
	return nil
}

// prefill restores the last reported seat, or the configured building, when
// it still exists in the catalog.
func (m *appModel) prefill() {
	catalog := m.selector.Catalog()
	recents, err := store.LoadRecentSelections()
	if err != nil {
		m.logger.Warn("load recent locations", "err", err)
	}
	if recent, ok := store.MatchRecent(recents, m.preferredBuilding); ok {
		current, err := locator.Resolve(catalog, recent.Building, recent.Room, recent.SeatNumber)
		if err == nil && current.SeatID == recent.SeatID {
			m.replay(current)
			return
		}
	}
	if m.preferredBuilding == "" {
		return
	}
	for _, b := range catalog.Buildings() {
		if strings.EqualFold(b.Building, m.preferredBuilding) {
			m.replay(locator.Selection{Building: b.Building})
			return
		}
	}
	m.logger.Warn("preferred building not in catalog", "building", m.preferredBuilding)
}

// replay walks the selector through the stages target names.
func (m *appModel) replay(target locator.Selection) {
	next, err := m.selector.PickBuilding(target.Building)
	if err != nil {
		return
	}
	m.commit(next)
	if target.Room == "" {
		return
	}
	if next, err = m.selector.PickRoom(target.Room); err != nil {
		return
	}
	m.commit(next)
	if target.SeatNumber == "" {
		return
	}
	if next, err = m.selector.EnterSeat(target.SeatNumber); err == nil {
		m.commit(next)
	}
}

func (m appModel) tapSeat() (tea.Model, tea.Cmd, bool) {
	seats := m.selector.View().Seats
	if m.seatCursor < 0 || m.seatCursor >= len(seats) {
		return m, nil, true
	}
	return m.apply(m.selector.TapSeat(seats[m.seatCursor].Number))
}

func (m appModel) continueFromSeat() (tea.Model, tea.Cmd, bool) {
	if !m.selection.Valid() {
		if m.selection.SeatNumber == "" {
			m.notice = "Type or pick a seat first."
		} else {
			m.notice = fmt.Sprintf("%q is %s in %s.", m.selection.SeatNumber, errInvalidSeat, m.selection.Room)
		}
		return m, nil, true
	}
	m.notice = ""
	if err := store.RememberSelection(m.selection); err != nil {
		m.logger.Warn("remember location", "err", err)
	}
	if len(m.symptoms) > 0 {
		m.state = stateSelectSymptoms
		return m, nil, true
	}
	m.state = stateLoadingSymptoms
	return m, tea.Batch(m.fetchSymptomsCmd(), m.spinner.Tick), true
}

func (m *appModel) moveSeatCursor(delta int) {
	seats := m.selector.View().Seats
	if len(seats) == 0 {
		return
	}
	next := m.seatCursor + delta
	if next < 0 || next >= len(seats) {
		return
	}
	m.seatCursor = next
}

func (m appModel) locationView() string {
	view := m.selector.View()
	var b strings.Builder
	b.WriteString(renderSteps(view.Steps, view.Selection))
	b.WriteString("\n\n")

	switch view.Status {
	case locator.StatusLoading:
		b.WriteString(m.loadingView())
	case locator.StatusEmpty:
		b.WriteString(panel("No locations", "The school has not published any buildings yet.", "ctrl+l retry • ctrl+c quit"))
	case locator.StatusBuildingNotFound:
		b.WriteString(panel("Building not found", fmt.Sprintf("%q is no longer in the list of buildings.", view.Selection.Building), "ctrl+b choose another building"))
	case locator.StatusRoomNotFound:
		b.WriteString(panel("Room not found", fmt.Sprintf("%q is no longer a room of %s.", view.Selection.Room, view.Selection.Building), "ctrl+r choose another room • ctrl+b change building"))
	default:
		switch view.Stage {
		case locator.StageBuilding:
			b.WriteString(m.buildingList.View())
		case locator.StageRoom:
			b.WriteString(m.roomList.View())
		case locator.StageSeat:
			b.WriteString(m.seatView(view))
		}
	}
	b.WriteString(m.noticeView())
	return b.String()
}

func renderSteps(steps [3]locator.Step, sel locator.Selection) string {
	activeChip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 1)
	doneChip := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Padding(0, 1)
	pendingChip := lipgloss.NewStyle().Faint(true).Padding(0, 1)

	values := [3]string{sel.Building, sel.Room, sel.SeatNumber}
	chips := make([]string, 0, len(steps))
	for i, step := range steps {
		label := fmt.Sprintf("%d %s", i+1, stageTitle(step.Stage))
		switch step.State {
		case locator.StepActive:
			chips = append(chips, activeChip.Render(label))
		case locator.StepDone:
			chips = append(chips, doneChip.Render("✓ "+values[i]))
		default:
			chips = append(chips, pendingChip.Render(label))
		}
	}
	return strings.Join(chips, hint("›"))
}

func stageTitle(stage locator.Stage) string {
	name := stage.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

func (m appModel) seatView(view locator.View) string {
	title := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Room %s • %s", view.Selection.Room, view.Selection.Building))
	lines := []string{title, "", m.seatInput.View()}

	switch {
	case view.Selection.Valid():
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render(fmt.Sprintf("✓ Seat %s", view.Selection.SeatNumber)))
	case view.Selection.SeatNumber != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Render(fmt.Sprintf("✗ %s is %s", view.Selection.SeatNumber, errInvalidSeat)))
	default:
		lines = append(lines, hint("Type your seat number or pick it below."))
	}
	lines = append(lines, "")

	if len(view.Seats) == 0 {
		lines = append(lines, hint("This room has no seats listed."))
		return strings.Join(lines, "\n")
	}
	lines = append(lines, m.renderSeatGrid(view.Seats, view.Selection.SeatID))
	lines = append(lines, "", hint("Legend: green selected • highlighted cursor"))
	return strings.Join(lines, "\n")
}

func (m appModel) renderSeatGrid(seats []model.Seat, selectedID string) string {
	cellWidth := 3
	for _, seat := range seats {
		if l := len(seat.Number); l > cellWidth {
			cellWidth = l
		}
	}

	seatStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("63"))

	var b strings.Builder
	for i, seat := range seats {
		rendered := padCell(seat.Number, cellWidth)
		switch {
		case i == m.seatCursor:
			rendered = cursorStyle.Render(rendered)
		case selectedID != "" && seat.ID == selectedID:
			rendered = selectedStyle.Render(rendered)
		default:
			rendered = seatStyle.Render(rendered)
		}
		b.WriteString(rendered)
		if (i+1)%seatColumns == 0 || i == len(seats)-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func panel(title string, message string, footer string) string {
	headerChip := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("63")).
		Padding(0, 2)
	content := strings.Join([]string{
		headerChip.Render(title),
		"",
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true).Render(message),
		"",
		hint(footer),
	}, "\n")
	return lipgloss.NewStyle().
		Padding(1, 3).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(content)
}

func seatIndex(seats []model.Seat, id string) int {
	if id == "" {
		return -1
	}
	for i, seat := range seats {
		if seat.ID == id {
			return i
		}
	}
	return -1
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type buildingItem struct {
	location model.Location
	current  bool
}

func (b buildingItem) Title() string {
	return b.location.Building
}

func (b buildingItem) Description() string {
	desc := fmt.Sprintf("%d rooms", len(b.location.Rooms))
	if len(b.location.Rooms) == 1 {
		desc = "1 room"
	}
	if b.current {
		return desc + " • current"
	}
	return desc
}

func (b buildingItem) FilterValue() string {
	return strings.ToLower(b.location.Building)
}

func buildBuildingItems(buildings []model.Location, current string) []list.Item {
	items := make([]list.Item, 0, len(buildings))
	for _, b := range buildings {
		items = append(items, buildingItem{location: b, current: b.Building == current})
	}
	return items
}

type roomItem struct {
	room model.Room
}

func (r roomItem) Title() string {
	return r.room.Name
}

func (r roomItem) Description() string {
	if len(r.room.Seats) == 1 {
		return "1 seat"
	}
	return fmt.Sprintf("%d seats", len(r.room.Seats))
}

func (r roomItem) FilterValue() string {
	return strings.ToLower(r.room.Name)
}

func buildRoomItems(rooms []model.Room) []list.Item {
	items := make([]list.Item, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, roomItem{room: r})
	}
	return items
}
