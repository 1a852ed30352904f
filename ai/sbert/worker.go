package sbert

import (
	"bufio"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/goccy/go-json"
)

//go:embed encoder.py
var encoderScript string

// maxLineBytes bounds one response line; a 64-text batch of 768-dim vectors
// is well under this.
const maxLineBytes = 64 << 20

type handshake struct {
	Status string `json:"status"`
	Dim    int    `json:"dim"`
	Error  string `json:"error,omitempty"`
}

type encodeRequest struct {
	Texts []string `json:"texts"`
}

type encodeResponse struct {
	Vectors [][]float32 `json:"vectors"`
	Error   string      `json:"error,omitempty"`
}

// worker is one encoder process. It is not safe for concurrent use; the pool
// hands each worker to one caller at a time.
type worker struct {
	id     int
	dim    int
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	stop   func() error
}

// startFunc launches a worker and completes the handshake.
type startFunc func(ctx context.Context, id int) (*worker, error)

// processStarter returns a startFunc that runs the encoder script with python.
func processStarter(python, model string, logger *slog.Logger) startFunc {
	return func(ctx context.Context, id int) (*worker, error) {
		cmd := exec.Command(python, "-u", "-c", encoderScript)
		cmd.Stderr = &logWriter{logger: logger.With("worker", id)}

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("starting %s: %w", python, err)
		}

		stop := func() error {
			_ = stdin.Close()
			if cmd.Process != nil {
				_ = cmd.Process.Kill()
			}
			_ = cmd.Wait()
			return nil
		}

		w, err := newWorker(ctx, id, model, stdin, stdout, stop)
		if err != nil {
			_ = stop()
			return nil, err
		}
		return w, nil
	}
}

// newWorker sends the model config over in and waits for the ready line on out.
func newWorker(ctx context.Context, id int, model string, in io.WriteCloser, out io.Reader, stop func() error) (*worker, error) {
	scanner := bufio.NewScanner(out)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	w := &worker{id: id, stdin: in, stdout: scanner, stop: stop}

	var hs handshake
	if err := w.roundTrip(ctx, map[string]string{"model": model}, &hs); err != nil {
		return nil, fmt.Errorf("worker %d handshake: %w", id, err)
	}
	if hs.Error != "" {
		return nil, fmt.Errorf("worker %d handshake: %s", id, hs.Error)
	}
	if hs.Status != "ready" || hs.Dim <= 0 {
		return nil, fmt.Errorf("worker %d handshake: unexpected status %q dim %d", id, hs.Status, hs.Dim)
	}
	w.dim = hs.Dim
	return w, nil
}

// encode embeds texts. A non-nil error that is not an *encodeError means the
// worker's pipes are broken and it must be discarded.
func (w *worker) encode(ctx context.Context, texts []string) ([][]float32, error) {
	var resp encodeResponse
	if err := w.roundTrip(ctx, encodeRequest{Texts: texts}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, &encodeError{msg: resp.Error}
	}
	return resp.Vectors, nil
}

// roundTrip writes req as one line and decodes one line into resp.
// If ctx ends first the worker is stopped, which unblocks the read.
func (w *worker) roundTrip(ctx context.Context, req, resp any) error {
	line, err := json.Marshal(req)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		if _, err := w.stdin.Write(append(line, '\n')); err != nil {
			done <- err
			return
		}
		if !w.stdout.Scan() {
			if err := w.stdout.Err(); err != nil {
				done <- err
				return
			}
			done <- io.ErrUnexpectedEOF
			return
		}
		done <- json.Unmarshal(w.stdout.Bytes(), resp)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		_ = w.stop()
		<-done
		return ctx.Err()
	}
}

func (w *worker) close() error {
	return w.stop()
}

// encodeError is an error reported by the model itself; the worker is still usable.
type encodeError struct {
	msg string
}

func (e *encodeError) Error() string {
	return "encoder: " + e.msg
}

func isEncodeError(err error) bool {
	var ee *encodeError
	return errors.As(err, &ee)
}

// logWriter forwards worker stderr to the logger line by line.
type logWriter struct {
	logger *slog.Logger
}

func (l *logWriter) Write(p []byte) (int, error) {
	l.logger.Debug("encoder stderr", "output", string(p))
	return len(p), nil
}
