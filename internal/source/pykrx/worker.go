package pykrx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/wonny/consensus/pkg/config"
	"github.com/wonny/consensus/pkg/logger"
)

// Worker invokes the pykrx Python worker as a subprocess with a textual
// protocol: one JSON request on stdin, one JSON document on stdout.
// Non-zero exit or empty stdout is a failure; execution is bounded by the
// configured timeout.
// ⭐ SSOT: pykrx 워커 호출은 여기서만
type Worker struct {
	python  string
	script  string
	timeout time.Duration
	logger  *logger.Logger
}

// NewWorker creates a Worker from config.
func NewWorker(cfg config.WorkerConfig, log *logger.Logger) *Worker {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Worker{
		python:  cfg.Python,
		script:  cfg.Script,
		timeout: timeout,
		logger:  log.WithField("module", "pykrx"),
	}
}

type request struct {
	Method string            `json:"method"`
	Params map[string]string `json:"params"`
}

// errorEnvelope mirrors the worker's error reporting: a JSON object with an
// "error" key instead of a payload.
type errorEnvelope struct {
	Error string `json:"error"`
}

// Call runs one worker method and returns the raw JSON payload.
func (w *Worker) Call(ctx context.Context, method string, params map[string]string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	reqBody, err := json.Marshal(request{Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal worker request: %w", err)
	}

	cmd := exec.CommandContext(ctx, w.python, w.script)
	cmd.Stdin = bytes.NewReader(reqBody)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("worker %s timed out after %s", method, w.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("worker %s failed: %w (stderr: %s)", method, err, firstLine(stderr.String()))
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, fmt.Errorf("worker %s returned empty stdout", method)
	}

	// Worker-level errors arrive as {"error": "..."} with exit code 0
	var envelope errorEnvelope
	if json.Unmarshal(out, &envelope) == nil && envelope.Error != "" {
		return nil, fmt.Errorf("worker %s: %s", method, envelope.Error)
	}

	w.logger.WithFields(map[string]interface{}{
		"method":   method,
		"duration": duration,
	}).Debug("Worker call completed")

	return json.RawMessage(out), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
