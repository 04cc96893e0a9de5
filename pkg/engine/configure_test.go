package engine

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/xilem/pkg/config"
	"github.com/go-drift/xilem/pkg/errors"
	"github.com/go-drift/xilem/pkg/graphics"
	"github.com/go-drift/xilem/pkg/logging"
)

func TestConfigureInstallsLogger(t *testing.T) {
	dir := t.TempDir()
	doc := "window:\n  title: demo\n  width: 320\n  height: 200\nlog:\n  level: debug\n  format: json\n"
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { logging.SetLogger(nil) })

	var buf bytes.Buffer
	cfg, err := Configure(dir, &buf)
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	r := New((&counterApp{}).build, WithConfig(cfg))
	defer r.Close()
	if got := r.Size(); got != (graphics.Size{Width: 320, Height: 200}) {
		t.Errorf("window size = %v, want 320x200", got)
	}

	logging.Logger().Debug("probe", "k", "v")
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("log output %q is not one JSON record: %v", buf.String(), err)
	}
	if line["msg"] != "probe" || line["level"] != "DEBUG" {
		t.Errorf("log record = %v", line)
	}
}

func TestConfigureRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("runtime:\n  workers: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Configure(dir, &bytes.Buffer{})
	var e *errors.Error
	if !errors.As(err, &e) || e.Kind != errors.KindConfig {
		t.Fatalf("Configure = %v, want a config error", err)
	}
	if !strings.Contains(err.Error(), "workers") {
		t.Errorf("error %q should name the bad setting", err)
	}
}
