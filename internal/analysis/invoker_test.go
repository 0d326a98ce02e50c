package analysis_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/JaimeStill/compliance-reports/internal/analysis"
	"github.com/JaimeStill/compliance-reports/pkg/logging"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantKey string
		wantErr bool
	}{
		{"valid", `{"report_key":"reports/a.json","report_url":"https://b/reports/a.json"}`, "reports/a.json", false},
		{"extra fields allowed", `{"message":"ok","report_key":"k","report_url":"u"}`, "k", false},
		{"surrounding whitespace", "\n  {\"report_key\":\"k\",\"report_url\":\"u\"}\n", "k", false},
		{"empty", "", "", true},
		{"not json", "Traceback (most recent call last):", "", true},
		{"tool error object", `{"error":"AWS credentials not configured properly"}`, "", true},
		{"empty key", `{"report_key":"","report_url":"u"}`, "", true},
		{"wrong type", `{"report_key":7,"report_url":"u"}`, "", true},
		{"two values", `{"report_key":"k","report_url":"u"} {"report_key":"k","report_url":"u"}`, "", true},
		{"array", `[{"report_key":"k","report_url":"u"}]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := analysis.ParseDescriptor([]byte(tt.out))
			if tt.wantErr {
				if !errors.Is(err, analysis.ErrInvocation) {
					t.Errorf("error = %v, want ErrInvocation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDescriptor() error = %v", err)
			}
			if got.ReportKey != tt.wantKey {
				t.Errorf("ReportKey = %q, want %q", got.ReportKey, tt.wantKey)
			}
		})
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}
	path := filepath.Join(t.TempDir(), "analyze.sh")
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommand_Analyze(t *testing.T) {
	script := writeScript(t, `echo "processing $1" >&2
printf '{"report_key":"reports/%s.json","report_url":"mem://x"}' "$(basename "$1" .pdf)"
`)

	var logs bytes.Buffer
	logger := logging.New(&logging.Config{Level: logging.LevelDebug, Format: logging.FormatText}, &logs)

	cmd := analysis.NewCommand("sh", script, logger)
	got, err := cmd.Analyze(context.Background(), "uploads/abc.pdf")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.ReportKey != "reports/abc.json" {
		t.Errorf("ReportKey = %q", got.ReportKey)
	}
	if !strings.Contains(logs.String(), "processing uploads/abc.pdf") || !strings.Contains(logs.String(), "level=WARN") {
		t.Errorf("stderr not logged at warn: %q", logs.String())
	}
}

func TestCommand_Failures(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"non-zero exit", `echo '{"report_key":"k","report_url":"u"}'; exit 3`},
		{"no output", `exit 0`},
		{"malformed", `echo 'done'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := analysis.NewCommand("sh", writeScript(t, tt.script), logging.Discard())
			if _, err := cmd.Analyze(context.Background(), "uploads/x.pdf"); !errors.Is(err, analysis.ErrInvocation) {
				t.Errorf("error = %v, want ErrInvocation", err)
			}
		})
	}
}

func TestCommand_Cancelled(t *testing.T) {
	cmd := analysis.NewCommand("sh", writeScript(t, "sleep 5"), logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := cmd.Analyze(ctx, "uploads/x.pdf"); !errors.Is(err, analysis.ErrInvocation) {
		t.Errorf("error = %v, want ErrInvocation", err)
	}
}
