package relay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/entrhq/tabcopy/pkg/types"
)

// maxRequestSize bounds a single command line on the serve transport.
const maxRequestSize = 1 << 20

// Serve reads newline-delimited JSON command envelopes from r and writes one
// JSON response per command to w. Commands run concurrently; a response
// carries the id of its request. Malformed or unknown envelopes get an error
// response and do not stop the loop.
func (s *Supervisor) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	var (
		writeMu sync.Mutex
		running sync.WaitGroup
	)
	encoder := json.NewEncoder(w)

	respond := func(resp types.Response) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := encoder.Encode(resp); err != nil {
			s.log.Errorf("failed to write response %s: %v", resp.ID, err)
		}
	}

	lines, readErr := readLines(ctx, r)

loop:
	for ctx.Err() == nil {
		var raw []byte
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			raw = line
		}

		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}

		req, cmd, err := types.DecodeRequest(line)
		if err != nil {
			s.log.Warnf("rejected request: %v", err)
			respond(types.NewResponse(req.ID, types.Failed(err.Error())))
			continue
		}

		running.Add(1)
		go func(id string, cmd types.Command) {
			defer running.Done()
			respond(types.NewResponse(id, s.Dispatch(ctx, cmd)))
		}(req.ID, cmd)
	}

	running.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := <-readErr; err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}
	return nil
}

// readLines scans r on its own goroutine so a blocked read never holds up
// cancellation. lines is closed at EOF, on a read error (then sent on the
// error channel) or once ctx is done and the next line arrives.
func readLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
		for scanner.Scan() {
			select {
			case lines <- append([]byte(nil), scanner.Bytes()...):
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}
