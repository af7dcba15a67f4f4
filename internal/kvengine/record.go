// Package kvengine implements the log-structured storage engine: an
// append-only on-disk command log with an in-memory key->offset index,
// crash-safe recovery, and online compaction.
package kvengine

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// OpType identifies which command variant a record carries.
type OpType uint8

const (
	OpUnspecified OpType = iota
	OpSet
	OpRemove
)

// Command is a tagged record persisted to the log: either a Set{key,
// value} or a Remove{key}. Commands are self-delimiting under JSON: a
// streaming decoder over concatenated commands can locate boundaries
// without any external framing, length prefix, or checksum.
type Command struct {
	Op    OpType `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// NewSet builds a Set command.
func NewSet(key, value string) Command {
	return Command{Op: OpSet, Key: key, Value: value}
}

// NewRemove builds a Remove command.
func NewRemove(key string) Command {
	return Command{Op: OpRemove, Key: key}
}

// encode serializes the command as a single JSON value with no trailing
// newline; record boundaries are recovered purely from JSON's own
// self-delimiting grammar, the way a streaming decoder over concatenated
// records would.
func encode(c Command) ([]byte, error) {
	buf, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("kvengine: encode record: %w", err)
	}
	return buf, nil
}

// decodeOne decodes exactly one JSON value from the front of frame. It
// does not report how many bytes it consumed. It is used when a record's length
// is already known from the index (the read path), where the caller has
// sliced exactly `length` bytes out of the log file.
func decodeOne(frame []byte) (Command, error) {
	dec := json.NewDecoder(bytes.NewReader(frame))
	var c Command
	if err := dec.Decode(&c); err != nil {
		return Command{}, fmt.Errorf("kvengine: decode record: %w", err)
	}
	return c, nil
}

// streamDecoder decodes a concatenated run of self-delimiting JSON
// command records off a file, reporting the cumulative byte offset
// after each record so the caller can compute record lengths without
// any external framing.
type streamDecoder struct {
	dec *json.Decoder
}

func newStreamDecoder(r io.Reader) *streamDecoder {
	return &streamDecoder{dec: json.NewDecoder(bufio.NewReader(r))}
}

// decodeNext decodes the next record and returns the offset, relative
// to the start of the stream, of the first byte after it. It returns
// io.EOF once the stream is exhausted.
func (d *streamDecoder) decodeNext() (Command, int64, error) {
	var c Command
	if err := d.dec.Decode(&c); err != nil {
		if err == io.EOF {
			return Command{}, 0, io.EOF
		}
		return Command{}, 0, fmt.Errorf("kvengine: decode record: %w", err)
	}
	return c, d.dec.InputOffset(), nil
}
