package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"FinChart/internal/config"
	"FinChart/internal/recorder"
)

func writeConfig(t *testing.T, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "loads.db")
	body := "source:\n  kind: mock\n  lookback_days: 30\n" +
		"database:\n  sqlite_path: " + dbPath + "\n" + extra
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, dbPath
}

func loadTestConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	path, _ := writeConfig(t, extra)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func TestRunRender_File(t *testing.T) {
	cfg := loadTestConfig(t, "chart:\n  title: ACME Corp\n")
	a, err := newApp(cfg, discardMetrics())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	out := filepath.Join(t.TempDir(), "chart.html")
	var stdout, status bytes.Buffer
	if err := runRender(context.Background(), a, out, &stdout, &status); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if stdout.Len() != 0 {
		t.Error("page should go to the file, not stdout")
	}
	page, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(page), "ACME Corp") || !strings.Contains(string(page), `id="chart_container"`) {
		t.Errorf("unexpected page:\n%s", page)
	}
	summary := status.String()
	for _, want := range []string{"ACME Corp", "mock", "points", "26"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	events, err := a.recorder.RecentLoads(5)
	if err != nil || len(events) != 1 || events[0].Outcome != "ok" {
		t.Errorf("expected one recorded ok load, got %v %v", events, err)
	}
}

func TestRunRender_FailureWritesErrorPage(t *testing.T) {
	cfg := loadTestConfig(t, "")
	cfg.Source.Kind = config.SourceEndpoint
	cfg.History.URL = "http://127.0.0.1:1/history"
	cfg.History.Timeout = time.Second
	a, err := newApp(cfg, discardMetrics())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	var stdout, status bytes.Buffer
	if err := runRender(context.Background(), a, "", &stdout, &status); err == nil {
		t.Fatal("expected load error")
	}
	if !strings.Contains(stdout.String(), "currently unavailable") {
		t.Errorf("expected failure page on stdout:\n%s", stdout.String())
	}
	if !strings.Contains(status.String(), "fetch_failure") {
		t.Errorf("unexpected status %q", status.String())
	}
}

func TestNewApp_RenderTargetMissing(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(tmpl, []byte(`<div id="elsewhere"></div>`), 0644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg := loadTestConfig(t, "chart:\n  template_path: "+tmpl+"\n")
	if _, err := newApp(cfg, discardMetrics()); err == nil || !strings.Contains(err.Error(), "chart_container") {
		t.Errorf("expected diagnostic naming the container, got %v", err)
	}
}

func TestSetup_LogDir(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	path, _ := writeConfig(t, "logging:\n  dir: "+logDir+"\n  console: false\n")

	root := NewRootCmd()
	if err := root.ParseFlags([]string{"--config", path}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	_, closer, err := setup(root, false)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer func() {
		closer.Close()
		logrus.SetOutput(os.Stderr)
	}()

	logrus.Info("log dir check")
	if _, err := os.Stat(filepath.Join(logDir, "finchart.log")); err != nil {
		t.Errorf("expected log file inside logging.dir: %v", err)
	}
}

func TestStyleFrom(t *testing.T) {
	cfg := loadTestConfig(t, "chart:\n  series_name: Close\n  series_color: \"#000000\"\n  responsive_breakpoint: 800\n")
	style := styleFrom(cfg)
	if style.SeriesName != "Close" || style.SeriesColor != "#000000" || style.ResponsiveBreakpoint != 800 {
		t.Errorf("unexpected style %+v", style)
	}
	if style.Title == "" || style.ContainerID != "chart_container" {
		t.Errorf("defaults should remain: %+v", style)
	}
}

func TestLoadsCommand(t *testing.T) {
	path, dbPath := writeConfig(t, "")
	rec, err := recorder.NewSQLiteRecorder(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	_ = rec.RecordLoad(&recorder.LoadEvent{ID: "abc-123", Source: "history", StartedAt: time.Now(), Outcome: "malformed_payload", Error: "missing Close"})
	rec.Close()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"loads", "--config", path, "-n", "5"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{"abc-123", "malformed_payload", "missing Close"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "finchart dev") {
		t.Errorf("unexpected version output %q", out.String())
	}
}
