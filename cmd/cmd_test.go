package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sicksense-cli/locator"
	"sicksense-cli/mockapi"
	"sicksense-cli/model"
	"sicksense-cli/service"
	"sicksense-cli/session"
	"sicksense-cli/store"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Chdir(home)
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("SICKSENSE_DEBUG", "")
	t.Setenv("SICKSENSE_BUILDING", "")
	t.Setenv("SICKSENSE_HTTP_TIMEOUT", "")
}

// startBackend serves the mock API and points the CLI at it.
func startBackend(t *testing.T) string {
	t.Helper()
	api := mockapi.NewServer(":0", mockapi.Options{
		Secret: "cmd-test",
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)
	baseURL := server.URL + "/api"
	t.Setenv("SICKSENSE_API_URL", baseURL)
	return baseURL
}

func signIn(t *testing.T, baseURL string, email string, role model.Role) {
	t.Helper()
	client := service.NewClient(nil, service.WithBaseURL(baseURL))
	resp, err := client.Login(context.Background(), model.LoginRequest{Email: email, Password: "pw", Role: role})
	require.NoError(t, err)
	dir, err := store.ConfigDir()
	require.NoError(t, err)
	_, err = session.NewManager(dir, nil).Begin(resp)
	require.NoError(t, err)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWith(t, args...)
	return out, err
}

func runWith(t *testing.T, args ...string) (string, *runtime, error) {
	t.Helper()
	var out bytes.Buffer
	rt := &runtime{}
	root := newRootCmd(rt, "1.2.3", "abc123")
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := execute(rt, root)
	return out.String(), rt, err
}

func TestVersion(t *testing.T) {
	setTestEnv(t)
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sicksense-cli 1.2.3 (abc123)\n", out)
}

func TestResolve_RequiresSession(t *testing.T) {
	setTestEnv(t)
	startBackend(t)

	_, err := run(t, "resolve", "--building", "Main Building", "--room", "101", "--seat", "A1")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Contains(t, err.Error(), "sicksense login")
}

func TestDebugLog_ClosedWhenCommandFails(t *testing.T) {
	setTestEnv(t)
	startBackend(t)
	logPath := filepath.Join(t.TempDir(), "debug.log")
	t.Setenv("SICKSENSE_DEBUG", "1")
	t.Setenv("SICKSENSE_LOG_FILE", logPath)

	_, rt, err := runWith(t, "resolve", "--building", "Main Building", "--room", "101", "--seat", "A1")
	require.ErrorIs(t, err, session.ErrNoSession)
	require.NotNil(t, rt.logFile)

	_, err = rt.logFile.WriteString("late write\n")
	assert.ErrorIs(t, err, os.ErrClosed)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "configured")
}

func TestResolve(t *testing.T) {
	setTestEnv(t)
	signIn(t, startBackend(t), "student@school.edu", model.RoleStudent)

	tests := []struct {
		name    string
		args    []string
		seatID  string
		wantErr error
	}{
		{
			name:   "valid seat ignores case",
			args:   []string{"--building", "Main Building", "--room", "101", "--seat", " a2 "},
			seatID: "c5b1f8e9-4aee-4b2f-8d6a-123456789abc",
		},
		{
			name:    "unknown seat",
			args:    []string{"--building", "Main Building", "--room", "101", "--seat", "Z9"},
			wantErr: errUnresolved,
		},
		{
			name:    "unknown building",
			args:    []string{"--building", "Gym", "--room", "101", "--seat", "A1"},
			wantErr: locator.ErrUnknownBuilding,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"resolve"}, tt.args...)...)

			var got resolveOutput
			require.NoError(t, json.Unmarshal([]byte(out), &got), out)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, got.Valid)
				assert.Nil(t, got.Location)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Valid)
			assert.Equal(t, tt.seatID, got.Selection.SeatID)
			require.NotNil(t, got.Location)
			assert.Equal(t, "101", got.Location.Room)
		})
	}
}

func TestLocations_RendersCatalog(t *testing.T) {
	setTestEnv(t)
	signIn(t, startBackend(t), "student@school.edu", model.RoleStudent)

	out, err := run(t, "locations")
	require.NoError(t, err)
	assert.Contains(t, out, "Science Building")
	assert.Contains(t, out, "e1f2a3b4-5678-90ab-cdef-112233445566")
	assert.NotContains(t, out, "Catalog issues")

	cached, fresh, err := store.LoadCatalogCache()
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Len(t, cached, 3)
}

func TestHistory_Empty(t *testing.T) {
	setTestEnv(t)
	signIn(t, startBackend(t), "student@school.edu", model.RoleStudent)

	out, err := run(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "No reports yet.\n", out)
}

func TestDashboard_StudentForbidden(t *testing.T) {
	setTestEnv(t)
	signIn(t, startBackend(t), "student@school.edu", model.RoleStudent)

	_, err := run(t, "dashboard")
	assert.True(t, service.IsUnauthorized(err), "unexpected error: %v", err)
}

func TestAction_UpdatesStatus(t *testing.T) {
	setTestEnv(t)
	signIn(t, startBackend(t), "admin@school.edu", model.RoleAdmin)

	out, err := run(t, "action", "act-002", "In-Progress")
	require.NoError(t, err)
	assert.Contains(t, out, "act-002")
	assert.Contains(t, out, "in-progress")

	out, err = run(t, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Parent Advisory Notification")
}

func TestReview_InvalidStatus(t *testing.T) {
	setTestEnv(t)

	_, err := run(t, "review", "rep-1", "closed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "investigating, pending, resolved, reviewed")
}

func TestLogout_WithoutSession(t *testing.T) {
	setTestEnv(t)

	out, err := run(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Signed out\n", out)
}
