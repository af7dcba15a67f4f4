package kvengine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/yndnr/kvs/internal/telemetry/logger"
)

// CompactionThreshold is the default stale-bytes trigger for compaction.
const CompactionThreshold = 1 << 20 // 1 MiB

var logFileRE = regexp.MustCompile(`^(\d+)\.log$`)

// Metrics receives engine observations. A nil Metrics is valid; every
// call site on Engine is a nil-safe no-op when Metrics is nil.
type Metrics interface {
	ObserveOp(op string, dur time.Duration)
	SetStaleBytes(n int64)
	IncCompactions()
}

// Config configures an Engine.
type Config struct {
	// Dir is the engine's data directory, created by Open if missing.
	Dir string

	// CompactionThreshold overrides CompactionThreshold when non-zero.
	CompactionThreshold int64

	Logger  logger.Logger
	Metrics Metrics
}

// Engine is a log-structured storage engine: an append-only command
// log per generation file plus an in-memory key->offset index. Engine
// is safe for concurrent use directly by multiple goroutines; it is
// already just a pointer to shared, internally synchronized state.
type Engine struct {
	dir    string
	cfg    Config
	logger logger.Logger

	mu         sync.Mutex // serializes reads, writer appends, index mutations, and compaction
	writer     *PositionedWriter
	currentGen uint64

	readersMu sync.RWMutex // guards readers against StorageBytes, the one accessor that doesn't hold mu
	readers   map[uint64]*PositionedReader

	idx        *index
	staleBytes int64 // guarded by mu
}

// Open prepares or recovers the store rooted at dir, replaying every
// existing generation file in ascending order before returning.
func Open(cfg Config) (*Engine, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("kvengine: dir is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.CompactionThreshold == 0 {
		cfg.CompactionThreshold = CompactionThreshold
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("kvengine: create dir: %w", err)
	}

	gens, err := listGenerations(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("kvengine: list generations: %w", err)
	}

	e := &Engine{
		dir:     cfg.Dir,
		cfg:     cfg,
		logger:  cfg.Logger,
		readers: make(map[uint64]*PositionedReader),
		idx:     newIndex(),
	}

	var maxGen uint64
	for _, gen := range gens {
		if err := e.replay(gen); err != nil {
			return nil, fmt.Errorf("kvengine: replay %d.log: %w", gen, err)
		}
		if gen > maxGen {
			maxGen = gen
		}
	}

	nextGen := maxGen + 1
	writer, err := NewPositionedWriter(e.genPath(nextGen))
	if err != nil {
		return nil, fmt.Errorf("kvengine: open writer for gen %d: %w", nextGen, err)
	}
	rf, err := NewPositionedReader(e.genPath(nextGen))
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("kvengine: open reader for gen %d: %w", nextGen, err)
	}
	e.writer = writer
	e.currentGen = nextGen
	e.readers[nextGen] = rf

	e.setStaleMetric()
	return e, nil
}

func listGenerations(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var gens []uint64
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		m := logFileRE.FindStringSubmatch(ent.Name())
		if m == nil {
			continue
		}
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		gens = append(gens, n)
	}
	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens, nil
}

func (e *Engine) genPath(gen uint64) string {
	return filepath.Join(e.dir, fmt.Sprintf("%d.log", gen))
}

// replay streams every command out of generation file gen from offset
// 0, rebuilding the index and stale-bytes counter, then keeps the file
// open for future reads.
func (e *Engine) replay(gen uint64) error {
	path := e.genPath(gen)

	scanf, err := os.Open(path)
	if err != nil {
		return err
	}
	dec := newStreamDecoder(scanf)

	var prevOffset int64
	for {
		cmd, newOffset, err := dec.decodeNext()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			scanf.Close()
			return fmt.Errorf("decode at offset %d: %w", prevOffset, err)
		}
		length := newOffset - prevOffset
		e.applyReplayedCommand(gen, cmd, prevOffset, length)
		prevOffset = newOffset
	}
	scanf.Close()

	reader, err := NewPositionedReader(path)
	if err != nil {
		return err
	}
	e.readers[gen] = reader
	return nil
}

func (e *Engine) applyReplayedCommand(gen uint64, cmd Command, offset, length int64) {
	switch cmd.Op {
	case OpSet:
		if old, ok := e.idx.get(cmd.Key); ok {
			e.staleBytes += old.Length
		}
		e.idx.set(cmd.Key, Location{FileID: gen, Offset: offset, Length: length})
	case OpRemove:
		if old, ok := e.idx.get(cmd.Key); ok {
			e.staleBytes += old.Length
			e.idx.delete(cmd.Key)
		}
		e.staleBytes += length
	}
}

// Get looks up key, returning (value, true, nil) if present, ("",
// false, nil) if absent, or an error on corruption.
//
// Get takes mu for the whole lookup, including the ReadAt, not just the
// index lookup: compaction relocates keys and closes/removes stale
// generation files under the same lock, so a Get that only held mu for
// the index read could still end up reading through a reader compaction
// has just closed. Routing reads through mu mirrors how the original
// implementation shares one mutex across both get and set.
func (e *Engine) Get(key string) (string, bool, error) {
	start := time.Now()
	e.mu.Lock()
	v, ok, err := e.get(key)
	e.mu.Unlock()
	e.observe("get", start)
	return v, ok, err
}

// get must be called with mu held.
func (e *Engine) get(key string) (string, bool, error) {
	loc, ok := e.idx.get(key)
	if !ok {
		return "", false, nil
	}

	f := e.readers[loc.FileID]
	if f == nil {
		return "", false, fmt.Errorf("kvengine: missing reader for generation %d: %w", loc.FileID, ErrUnexpectedRecord)
	}

	buf := make([]byte, loc.Length)
	if _, err := f.ReadAt(buf, loc.Offset); err != nil {
		return "", false, fmt.Errorf("kvengine: read record: %w", err)
	}
	cmd, err := decodeOne(buf)
	if err != nil {
		return "", false, err
	}
	if cmd.Op != OpSet {
		return "", false, ErrUnexpectedRecord
	}
	return cmd.Value, true, nil
}

// Set inserts or overwrites key. If the resulting stale-byte count
// exceeds the configured threshold, compaction runs synchronously
// before Set returns.
func (e *Engine) Set(key, value string) error {
	start := time.Now()
	err := e.mutate(func() error {
		buf, err := encode(NewSet(key, value))
		if err != nil {
			return err
		}

		writeStart := e.writer.Pos()
		if _, err := e.writer.Write(buf); err != nil {
			return fmt.Errorf("kvengine: write: %w", err)
		}
		if err := e.writer.Flush(); err != nil {
			return fmt.Errorf("kvengine: flush: %w", err)
		}
		length := e.writer.Pos() - writeStart

		loc := Location{FileID: e.currentGen, Offset: writeStart, Length: length}
		if old, existed := e.idx.get(key); existed {
			e.staleBytes += old.Length
		}
		e.idx.set(key, loc)
		return nil
	})
	e.observe("set", start)
	return err
}

// Remove deletes key, failing with ErrKeyNotFound if absent.
func (e *Engine) Remove(key string) error {
	start := time.Now()
	err := e.mutate(func() error {
		old, ok := e.idx.get(key)
		if !ok {
			return ErrKeyNotFound
		}

		buf, err := encode(NewRemove(key))
		if err != nil {
			return err
		}

		writeStart := e.writer.Pos()
		if _, err := e.writer.Write(buf); err != nil {
			return fmt.Errorf("kvengine: write: %w", err)
		}
		if err := e.writer.Flush(); err != nil {
			return fmt.Errorf("kvengine: flush: %w", err)
		}
		rlen := e.writer.Pos() - writeStart

		e.idx.delete(key)
		e.staleBytes += old.Length + rlen
		return nil
	})
	e.observe("remove", start)
	return err
}

// mutate runs fn under the write mutex, then triggers compaction if the
// stale-bytes threshold has been crossed, keeping that check under the
// same lock so the trigger decision is made against a consistent count.
func (e *Engine) mutate(fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	e.setStaleMetric()
	if e.staleBytes > e.cfg.CompactionThreshold {
		if err := e.compactLocked(); err != nil {
			e.logger.Error("compaction failed", "error", err)
			return nil // the mutation itself already succeeded
		}
	}
	return nil
}

func (e *Engine) observe(op string, start time.Time) {
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.ObserveOp(op, time.Since(start))
	}
}

func (e *Engine) setStaleMetric() {
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.SetStaleBytes(e.staleBytes)
	}
}

// Close flushes and closes every open file handle.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	if err := e.writer.Close(); err != nil {
		firstErr = err
	}

	e.readersMu.Lock()
	for id, f := range e.readers {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.readers, id)
	}
	e.readersMu.Unlock()

	return firstErr
}

// Len returns the number of live keys, for tests and diagnostics.
func (e *Engine) Len() int {
	return e.idx.len()
}

// StaleBytes returns the current stale-bytes estimate, for tests and
// diagnostics.
func (e *Engine) StaleBytes() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.staleBytes
}

// StorageBytes returns the combined size of every generation file
// currently on disk, for metrics reporting.
func (e *Engine) StorageBytes() int64 {
	e.readersMu.RLock()
	gens := make([]uint64, 0, len(e.readers))
	for gen := range e.readers {
		gens = append(gens, gen)
	}
	e.readersMu.RUnlock()

	var total int64
	for _, gen := range gens {
		info, err := os.Stat(e.genPath(gen))
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

// CurrentGeneration returns the writer's current generation number, for
// tests and diagnostics.
func (e *Engine) CurrentGeneration() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentGen
}
