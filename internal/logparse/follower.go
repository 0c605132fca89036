package logparse

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/cybertec-postgresql/slowwatch/internal/log"
)

// Follower yields complete lines appended to a single growing log file,
// surviving rotation, truncation and temporary disappearance of the file.
// History present before the first open is not replayed.
//
// It is a poll-based state machine: unopened, open, or waiting for the
// file to (re)appear. All waits are bounded by the poll interval, so
// cancellation latency is about one interval.
type Follower struct {
	path         string
	pollInterval time.Duration

	file    *os.File
	reader  *bufio.Reader
	info    os.FileInfo // identity of the open file, for rotation detection
	offset  int64       // read position including any buffered partial line
	pending strings.Builder
	fromEnd bool // where to seek on next open
}

func NewFollower(path string, pollInterval time.Duration) *Follower {
	// initial open skips over history and reports only appended lines
	return &Follower{path: path, pollInterval: pollInterval, fromEnd: true}
}

// Close releases the underlying file handle, if any.
func (f *Follower) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	f.reader = nil
	return err
}

// Next returns the next complete line with its terminator stripped. When
// no line becomes available within one poll interval it returns ok=false,
// giving the caller a chance to run periodic work. A non-nil error is
// only returned on context cancellation.
func (f *Follower) Next(ctx context.Context) (line string, ok bool, err error) {
	if err = ctx.Err(); err != nil {
		return "", false, err
	}
	if f.file == nil {
		if !f.open(ctx) {
			return "", false, f.sleep(ctx)
		}
	}

	// one extra pass so a detected rotation is picked up without an
	// intervening poll sleep
	for range 2 {
		chunk, readErr := f.reader.ReadString('\n')
		f.offset += int64(len(chunk))
		switch {
		case readErr == nil:
			f.pending.WriteString(chunk)
			line = strings.TrimRight(f.pending.String(), "\r\n")
			f.pending.Reset()
			return line, true, nil
		case errors.Is(readErr, io.EOF):
			// producer may still be writing the line, keep it for later
			f.pending.WriteString(chunk)
			if !f.checkRotation(ctx) {
				return "", false, f.sleep(ctx)
			}
			if f.file == nil && !f.open(ctx) {
				return "", false, f.sleep(ctx)
			}
		default:
			log.GetLogger(ctx).WithError(readErr).Warningf("Failed to read logfile %s", f.path)
			_ = f.Close()
			f.fromEnd = true
			return "", false, f.sleep(ctx)
		}
	}
	return "", false, f.sleep(ctx)
}

// open attempts a single transition to the open state. A missing file is
// not an error, the follower just keeps waiting for it to appear.
func (f *Follower) open(ctx context.Context) bool {
	logger := log.GetLogger(ctx)
	file, err := os.Open(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.WithError(err).Warningf("Failed to open logfile %s", f.path)
		}
		return false
	}
	info, err := file.Stat()
	if err != nil {
		logger.WithError(err).Warningf("Failed to stat logfile %s", f.path)
		_ = file.Close()
		return false
	}
	f.offset = 0
	if f.fromEnd {
		if f.offset, err = file.Seek(0, io.SeekEnd); err != nil {
			logger.WithError(err).Warningf("Failed to seek logfile %s", f.path)
			_ = file.Close()
			return false
		}
	}
	f.file = file
	f.info = info
	f.reader = bufio.NewReader(file)
	f.pending.Reset()
	logger.Debugf("Following logfile %s from offset %d", f.path, f.offset)
	return true
}

// checkRotation re-stats the path at EOF. Reports true when the handle
// was closed and the file needs to be reopened: either the file identity
// changed (rotation) or it shrank below the read offset (truncation), in
// which case the new content is read from the beginning. A vanished file
// moves the follower back to the waiting state.
func (f *Follower) checkRotation(ctx context.Context) bool {
	logger := log.GetLogger(ctx)
	st, err := os.Stat(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warningf("Logfile %s vanished, waiting for it to reappear", f.path)
		_ = f.Close()
		f.fromEnd = true
		return false
	case err != nil:
		logger.WithError(err).Warningf("Failed to stat logfile %s", f.path)
		return false
	case !os.SameFile(f.info, st) || st.Size() < f.offset:
		logger.Infof("Logfile %s was rotated or truncated, reopening", f.path)
		_ = f.Close()
		f.fromEnd = false
		return true
	}
	return false
}

func (f *Follower) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.pollInterval):
		return nil
	}
}
