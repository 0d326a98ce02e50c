package analysis

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed descriptor.schema.json
var descriptorSchema []byte

var descriptor = gojsonschema.NewBytesLoader(descriptorSchema)

// Result locates the findings the analysis tool wrote to object storage.
type Result struct {
	ReportKey string `json:"report_key"`
	ReportURL string `json:"report_url"`
}

// Invoker runs analysis against a stored upload.
type Invoker interface {
	Analyze(ctx context.Context, storageKey string) (Result, error)
}

// Command invokes an external tool as "<interpreter> <script> <storageKey>".
// The tool must print exactly one JSON descriptor on stdout. Anything it
// writes to stderr is logged and otherwise ignored. Command sets no timeout
// of its own; cancel ctx to stop the process.
type Command struct {
	Interpreter string
	Script      string
	Dir         string
	Env         []string
	logger      *slog.Logger
}

// NewCommand creates a Command invoker.
func NewCommand(interpreter, script string, logger *slog.Logger) *Command {
	return &Command{
		Interpreter: interpreter,
		Script:      script,
		logger:      logger.With("invoker", "command"),
	}
}

func (c *Command) Analyze(ctx context.Context, storageKey string) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Interpreter, c.Script, storageKey)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if diag := strings.TrimSpace(stderr.String()); diag != "" {
		c.logger.Warn("analysis tool diagnostics", "storage_key", storageKey, "stderr", diag)
	}

	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrInvocation, c.Script, err)
	}

	return ParseDescriptor(stdout.Bytes())
}

// ParseDescriptor decodes the single JSON object an analysis tool prints and
// checks it against the descriptor schema.
func ParseDescriptor(out []byte) (Result, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return Result{}, fmt.Errorf("%w: empty output", ErrInvocation)
	}

	dec := json.NewDecoder(bytes.NewReader(out))
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("%w: malformed output: %v", ErrInvocation, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: output holds more than one JSON value", ErrInvocation)
	}

	check, err := gojsonschema.Validate(descriptor, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return Result{}, fmt.Errorf("%w: malformed output: %v", ErrInvocation, err)
	}
	if !check.Valid() {
		msgs := make([]string, 0, len(check.Errors()))
		for _, e := range check.Errors() {
			msgs = append(msgs, e.String())
		}
		return Result{}, fmt.Errorf("%w: invalid descriptor: %s", ErrInvocation, strings.Join(msgs, "; "))
	}

	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, fmt.Errorf("%w: malformed output: %v", ErrInvocation, err)
	}
	return r, nil
}
