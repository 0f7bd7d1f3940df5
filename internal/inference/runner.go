package inference

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"time"

	"semtok/internal/audio"
)

var commandContext = exec.CommandContext

// RunnerConfig describes how to launch the tokenizer runner for one device.
type RunnerConfig struct {
	// Binary is the runner executable name or path.
	Binary string
	// ModelPath is the serialized tokenizer the runner loads.
	ModelPath string
	// DeviceID is the accelerator ordinal the runner binds to.
	DeviceID int
	// StartupTimeout bounds the wait for the runner's ready event.
	StartupTimeout time.Duration
}

// RunnerSession drives a long-lived tokenizer subprocess over NDJSON.
type RunnerSession struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
	nextID  int64
}

type inferRequest struct {
	ID       int64     `json:"id"`
	Mels     int       `json:"mels"`
	Frames   int       `json:"frames"`
	Features []float32 `json:"features"`
}

type runnerEvent struct {
	Event  string  `json:"event,omitempty"`
	ID     int64   `json:"id,omitempty"`
	Tokens []int64 `json:"tokens,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// maxResponseBytes bounds a single runner response line. Token sequences are
// tiny next to this; the headroom is for error payloads.
const maxResponseBytes = 16 << 20

// NewRunnerSession launches the runner bound to cfg.DeviceID and waits for
// its ready event.
func NewRunnerSession(ctx context.Context, cfg RunnerConfig) (*RunnerSession, error) {
	if cfg.Binary == "" {
		return nil, errors.New("runner binary required")
	}
	if cfg.ModelPath == "" {
		return nil, errors.New("model path required")
	}

	args := []string{
		"--model", cfg.ModelPath,
		"--device", strconv.Itoa(cfg.DeviceID),
	}
	cmd := commandContext(ctx, cfg.Binary, args...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cfg.Binary, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64<<10), maxResponseBytes)
	session := &RunnerSession{cmd: cmd, stdin: stdin, scanner: scanner}

	timeout := cfg.StartupTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	if err := session.awaitReady(timeout); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("runner on device %d: %w", cfg.DeviceID, err)
	}
	return session, nil
}

func (s *RunnerSession) awaitReady(timeout time.Duration) error {
	type readyResult struct {
		event runnerEvent
		err   error
	}
	done := make(chan readyResult, 1)
	go func() {
		event, err := s.readEvent()
		done <- readyResult{event: event, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("await ready: %w", res.err)
		}
		if res.event.Event != "ready" {
			return fmt.Errorf("await ready: unexpected event %q", res.event.Event)
		}
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("runner did not become ready within %s", timeout)
	}
}

// Infer sends one feature tensor and blocks for its token sequence.
func (s *RunnerSession) Infer(ctx context.Context, features audio.Features) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.nextID++
	request := inferRequest{
		ID:       s.nextID,
		Mels:     features.Mels,
		Frames:   features.Frames,
		Features: features.Data,
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal infer request: %w", err)
	}
	payload = append(payload, '\n')
	if _, err := s.stdin.Write(payload); err != nil {
		return nil, fmt.Errorf("write infer request: %w", err)
	}

	event, err := s.readEvent()
	if err != nil {
		return nil, fmt.Errorf("read infer response: %w", err)
	}
	if event.Error != "" {
		return nil, fmt.Errorf("runner: %s", event.Error)
	}
	if event.ID != request.ID {
		return nil, fmt.Errorf("response id %d does not match request id %d", event.ID, request.ID)
	}
	return event.Tokens, nil
}

func (s *RunnerSession) readEvent() (runnerEvent, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return runnerEvent{}, err
		}
		return runnerEvent{}, io.ErrUnexpectedEOF
	}
	var event runnerEvent
	if err := json.Unmarshal(s.scanner.Bytes(), &event); err != nil {
		return runnerEvent{}, fmt.Errorf("parse runner output %q: %w", s.scanner.Text(), err)
	}
	return event, nil
}

// Close ends the runner's stdin and reaps the subprocess.
func (s *RunnerSession) Close() error {
	_ = s.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		_ = s.cmd.Process.Kill()
		return <-done
	}
}

var _ Session = (*RunnerSession)(nil)

// NewRunnerFactory adapts RunnerConfig into the pipeline's session factory,
// stamping the device ordinal per call.
func NewRunnerFactory(cfg RunnerConfig) Factory {
	return func(ctx context.Context, deviceID int) (Session, error) {
		deviceCfg := cfg
		deviceCfg.DeviceID = deviceID
		return NewRunnerSession(ctx, deviceCfg)
	}
}
