package service_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sicksense-cli/locator"
	"sicksense-cli/mockapi"
	"sicksense-cli/model"
	"sicksense-cli/service"
	"sicksense-cli/session"
)

func startMockAPI(t *testing.T) string {
	t.Helper()
	api := mockapi.NewServer(":0", mockapi.Options{
		Secret: "integration",
		Clock:  clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	return server.URL + "/api"
}

func TestClient_ReportFlowAgainstMockAPI(t *testing.T) {
	ctx := context.Background()
	baseURL := startMockAPI(t)

	sessions := session.NewManager(t.TempDir(), clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)))
	client := service.NewClient(nil, service.WithBaseURL(baseURL), service.WithTokenSource(sessions))

	resp, err := client.Login(ctx, model.LoginRequest{Email: "student@school.edu", Password: "pw", Role: model.RoleStudent})
	require.NoError(t, err)
	_, err = sessions.Begin(resp)
	require.NoError(t, err)

	locations, err := client.GetLocations(ctx)
	require.NoError(t, err)
	catalog := locator.NewCatalog(locations)
	require.NoError(t, catalog.Validate())

	sel, err := locator.Resolve(catalog, "Science Building", "Lab-1", "a2")
	require.NoError(t, err)
	require.True(t, sel.Valid())

	symptoms, err := client.GetSymptoms(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, symptoms)

	report, err := client.SubmitReport(ctx, model.CreateHealthReport{
		StudentUserID: resp.User.ID,
		Location:      sel.ReportLocation(),
		SeatID:        sel.SeatID,
		Severity:      model.SeverityMild,
		DateOfOnset:   "2026-10-19",
		Symptoms:      []string{symptoms[0].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportPending, report.Status)
	assert.Equal(t, "Lab-1", report.Location.Room)

	history, err := client.GetMyHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, report.ID, history[0].ID)

	_, err = client.GetDashboard(ctx)
	assert.True(t, service.IsUnauthorized(err), "students cannot read the dashboard: %v", err)
}

func TestClient_AdminOperationsAgainstMockAPI(t *testing.T) {
	ctx := context.Background()
	baseURL := startMockAPI(t)

	sessions := session.NewManager(t.TempDir(), clockwork.NewFakeClockAt(time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)))
	client := service.NewClient(nil, service.WithBaseURL(baseURL), service.WithTokenSource(sessions))

	resp, err := client.Login(ctx, model.LoginRequest{Email: "admin@school.edu", Password: "pw", Role: model.RoleAdmin})
	require.NoError(t, err)
	_, err = sessions.Begin(resp)
	require.NoError(t, err)

	dashboard, err := client.GetDashboard(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, dashboard.Hotspots)
	require.NotEmpty(t, dashboard.Actions)

	action, err := client.UpdateActionStatus(ctx, dashboard.Actions[0].ID, model.ActionInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.ActionInProgress, action.Status)

	_, err = client.UpdateReportStatus(ctx, "missing", model.ReportReviewed)
	assert.True(t, service.IsNotFound(err), "unexpected error: %v", err)

	reports, err := client.GetAllReports(ctx)
	require.NoError(t, err)
	assert.Empty(t, reports)
}
