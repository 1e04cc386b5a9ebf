package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"careerdeck/cmd/deck/views"
	"careerdeck/internal/career"
	"careerdeck/internal/config"
	"careerdeck/internal/store"
	"careerdeck/internal/types"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJoinArgs(t *testing.T) {
	got := joinArgs([]string{"one", "two", "three"})
	if got != "one two three" {
		t.Fatalf("expected 'one two three', got '%s'", got)
	}
}

func TestParseScreen(t *testing.T) {
	tests := []struct {
		in      string
		want    views.Screen
		wantErr bool
	}{
		{"", views.ScreenDashboard, false},
		{"chat", views.ScreenCareerChat, false},
		{"Comm", views.ScreenCommunity, false},
		{"f", views.ScreenFoundry, false},
		{"lab", views.ScreenAnalyzer, false},
		{"nowhere", 0, true},
	}
	for _, tt := range tests {
		got, err := parseScreen(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

// setupCommand points the global flags at a temp config dir and srv.
func setupCommand(t *testing.T, srv *httptest.Server, token string) string {
	t.Helper()
	logger = zap.NewNop()
	dir := t.TempDir()
	configPath = filepath.Join(dir, config.FileName)
	apiURL = srv.URL
	timeout = 5 * time.Second
	t.Setenv("DECK_TOKEN", token)
	t.Setenv("DECK_API_URL", "")
	t.Cleanup(func() {
		configPath, apiURL = "", ""
		authEmail, authPassword, authName = "", "", ""
		resumeJobFile = ""
	})
	return dir
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginSavesSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		writeJSON(w, map[string]any{"token": "abc", "user": map[string]string{"name": "Ada", "email": "ada@example.com"}})
	}))
	defer srv.Close()
	dir := setupCommand(t, srv, "")

	authEmail, authPassword = "ada@example.com", "secret"
	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runLogin)(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, "Logged in as Ada")

	local, err := store.NewLocalStore(config.DefaultConfig().DatabasePath(dir))
	require.NoError(t, err)
	defer local.Close()
	assert.Equal(t, "abc", local.GetString(store.KeyToken, ""))
	assert.Equal(t, "Ada", local.GetString(store.KeyUserName, ""))
}

func TestLoginRejectsBadEmail(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	setupCommand(t, srv, "")

	authEmail, authPassword = "not-an-email", "secret"
	err := withEnv(runLogin)(&cobra.Command{}, nil)
	assert.ErrorIs(t, err, career.ErrInvalidEmail)
	assert.Zero(t, hits.Load())
}

func TestCommandsRequireLogin(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	setupCommand(t, srv, "")

	err := withEnv(runChannels)(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestJoinInvalidCodeMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	err := withEnv(runJoin)(&cobra.Command{}, []string{"12 3"})
	assert.ErrorIs(t, err, career.ErrInvalidCode)
	assert.Zero(t, hits.Load())
}

func TestJoinRejectedCodeIsExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid code"}`, http.StatusNotFound)
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	err := withEnv(runJoin)(&cobra.Command{}, []string{" 123456 "})
	assert.ErrorIs(t, err, career.ErrSessionExpired)
}

func TestJoinSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "123456", in["code"])
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, map[string]string{"project_id": "p-9"})
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runJoin)(&cobra.Command{}, []string{"123456"}))
	})
	assert.Contains(t, output, "Joined project p-9")
}

func TestAskExtractsProjects(t *testing.T) {
	var saved atomic.Bool
	reply := "Try these:\n```json\n{\"projects\":[{\"title\":\"CLI Todo\",\"difficulty\":\"Beginner\"}]}\n```"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat":
			writeJSON(w, map[string]string{"response": reply})
		case "/update-generated-projects":
			saved.Store(true)
			writeJSON(w, map[string]string{"status": "ok"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runAsk)(&cobra.Command{}, []string{"ideas", "please"}))
	})
	assert.Contains(t, output, "Try these:")
	assert.Contains(t, output, career.LabUpdatedNote)
	assert.Contains(t, output, "CLI Todo")
	assert.NotContains(t, output, "```")
	assert.True(t, saved.Load())
}

func TestAskFallsBackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runAsk)(&cobra.Command{}, []string{"hello"}))
	})
	assert.Contains(t, output, career.ChatFallback)
}

func TestMessagesFallsBackToCache(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": "1", "user": "Lin", "content": "cached hello", "time": "9:15:00 AM", "type": "text", "channel": "general"}]`))
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	first := captureOutput(t, func() {
		require.NoError(t, withEnv(runMessages)(&cobra.Command{}, []string{"general"}))
	})
	assert.Contains(t, first, "cached hello")
	assert.Contains(t, first, "9:15:00 AM")

	fail.Store(true)
	second := captureOutput(t, func() {
		require.NoError(t, withEnv(runMessages)(&cobra.Command{}, []string{"general"}))
	})
	assert.Contains(t, second, "cached hello")
}

func TestSendPostsMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/community/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, map[string]string{"status": "ok"})
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runSend)(&cobra.Command{}, []string{"general", "hi", "all"}))
	})
	assert.Contains(t, output, "Sent to #general")
	assert.Equal(t, "hi all", got["content"])
	assert.Equal(t, "general", got["channel"])
}

func TestProjectBrief(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/project/p-1", r.URL.Path)
		writeJSON(w, types.Project{
			ID: "p-1", Title: "Budget Tracker", TechStack: "Go", CurrentPhase: 2, TotalPhases: 2,
			Phases: []types.Phase{
				{ID: 1, Title: "Setup"},
				{ID: 2, Title: "Persistence", Description: "Store entries", Tasks: []string{"Create schema", "Write repository"}},
			},
		})
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runProject)(&cobra.Command{}, []string{"p-1"}))
	})
	assert.Contains(t, output, "Budget Tracker")
	assert.Contains(t, output, "Persistence")
	assert.Contains(t, output, "Store entries")
	assert.Contains(t, output, "Create schema")
}

func TestResumeFromFile(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resume/build", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"personal_details": {"name": "Cadet X", "email": "cadet@sentinel.ai", "phone": ""},
			"summary": "Robotics engineer moving into cloud backends.",
			"projects_section": [{"title": "Serverless URL Shortener", "bullets": ["Deployed on AWS Lambda"]}],
			"experience_section": [],
			"education_section": [{"degree": "BSc Mechatronics", "university": "State University", "year": "2024"}],
			"skills_section": ["Python", "AWS"],
			"improvement_tips": "Quantify impact."
		}`))
	}))
	defer srv.Close()
	dir := setupCommand(t, srv, "tok")
	resumeJobFile = filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(resumeJobFile, []byte("  Cloud backend engineer\n"), 0o644))

	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runResume)(&cobra.Command{}, nil))
	})
	assert.Equal(t, "Cloud backend engineer", got["job_description"])
	assert.Contains(t, output, "Cadet X")
	assert.Contains(t, output, "Deployed on AWS Lambda")
	assert.Contains(t, output, "State University")
	assert.NotContains(t, output, "EXPERIENCE", "empty sections are skipped")
}

func TestResumeRequiresJobDescription(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()
	setupCommand(t, srv, "tok")

	err := withEnv(runResume)(&cobra.Command{}, []string{"  "})
	assert.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestVerifyUsesCurrentPhaseObjective(t *testing.T) {
	var objective, filename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/project/p-1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "p-1", "title": "Budget Tracker", "current_phase": 2, "total_phases": 6,
				"phases": [{"id": 1, "title": "Setup", "description": "Init the repo", "tasks": []},
				           {"id": 2, "title": "Persistence", "description": "Store entries in SQLite", "tasks": ["Create schema"]}]}`))
		case "/foundry/verify":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			objective = r.FormValue("phase_objective")
			_, hdr, err := r.FormFile("file")
			require.NoError(t, err)
			filename = hdr.Filename
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"approved": false, "feedback": "No rows are visible in the output."}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	dir := setupCommand(t, srv, "tok")
	shot := filepath.Join(dir, "run.png")
	require.NoError(t, os.WriteFile(shot, []byte("png"), 0o644))

	output := captureOutput(t, func() {
		require.NoError(t, withEnv(runVerify)(&cobra.Command{}, []string{"p-1", shot}))
	})
	assert.Equal(t, "Store entries in SQLite", objective)
	assert.Equal(t, "run.png", filename)
	assert.Contains(t, output, "REJECTED: No rows are visible in the output.")
}

func TestConfigInitWritesDefaults(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	setupCommand(t, srv, "")

	output := captureOutput(t, func() {
		require.NoError(t, configInitCmd.RunE(&cobra.Command{}, nil))
	})
	assert.Contains(t, output, "Wrote")

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, strings.TrimRight(cfg.API.BaseURL, "/"))

	assert.Error(t, configInitCmd.RunE(&cobra.Command{}, nil), "second init must not overwrite")
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
