// Package tail incrementally reads newly appended lines from a file that
// another process is still writing to.
//
// The writer is uncoordinated (typically `mpremote run ... | tee log`),
// so correctness rests on one rule: only fully newline-terminated lines
// are ever returned. A partial trailing write stays buffered until a
// later poll sees its terminator, which makes in-progress writes
// invisible without any locking.
package tail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Source tracks a byte offset into an append-only log file. The offset
// only ever advances; consumed bytes are never re-read. The one
// exception is truncation, where the file shrank under us and the whole
// capture restarts from offset zero.
type Source struct {
	path    string
	file    *os.File
	offset  int64
	partial []byte
	log     zerolog.Logger
}

// NewSource creates a source for path. The file does not have to exist
// yet; Poll treats an absent file as "no data".
func NewSource(path string, log zerolog.Logger) *Source {
	return &Source{path: path, log: log.With().Str("component", "tail").Logger()}
}

// Path returns the watched file path.
func (s *Source) Path() string {
	return s.path
}

// Offset returns the byte offset of consumed data, for diagnostics.
func (s *Source) Offset() int64 {
	return s.offset
}

// Poll returns the complete lines appended since the previous poll,
// without their newline terminators. No new data, or a file that does
// not exist yet, yields an empty result and a nil error. Poll never
// blocks waiting for data.
func (s *Source) Poll() ([]string, error) {
	if s.file == nil {
		file, err := os.Open(s.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("open log: %w", err)
		}
		s.file = file
		s.log.Debug().Str("path", s.path).Msg("log file opened")
	}

	info, err := s.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < s.offset {
		// Truncated or rotated: treat it as a new capture. Reopen so a
		// rename-and-recreate rotation does not pin the old inode.
		s.log.Info().
			Int64("offset", s.offset).
			Int64("size", info.Size()).
			Msg("log shrank, restarting from start")
		s.file.Close()
		s.file = nil
		s.offset = 0
		s.partial = nil
		return nil, nil
	}
	if info.Size() == s.offset {
		return nil, nil
	}

	chunk := make([]byte, info.Size()-s.offset)
	n, err := s.file.ReadAt(chunk, s.offset)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read log: %w", err)
	}
	chunk = chunk[:n]

	var lines []string
	for {
		nl := bytes.IndexByte(chunk, '\n')
		if nl < 0 {
			break
		}
		line := chunk[:nl]
		if len(s.partial) > 0 {
			line = append(s.partial, line...)
			s.partial = nil
		}
		lines = append(lines, string(bytes.TrimSuffix(line, []byte{'\r'})))
		chunk = chunk[nl+1:]
	}
	if len(chunk) > 0 {
		s.partial = append(s.partial, chunk...)
	}
	s.offset += int64(n)

	return lines, nil
}

// Close releases the file handle. The source stays usable; the next
// Poll reopens the file at the current offset.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
