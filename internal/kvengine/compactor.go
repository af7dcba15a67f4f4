package kvengine

import (
	"fmt"
	"os"
)

// compactLocked rewrites the live key set into a fresh generation,
// reclaiming space held by overwritten and removed records. The
// caller must already hold e.mu.
//
// Two new generations are reserved — Gc (the compaction file) and Gw
// (the new writer file) — rather than one, so the writer can keep
// appending to Gw while (or immediately after) Gc is built, without
// those new records ever being overwritten by the rewrite in step 2 and
// without needing a rename.
func (e *Engine) compactLocked() error {
	gc := e.currentGen + 1
	gw := e.currentGen + 2

	compactWriter, err := NewPositionedWriter(e.genPath(gc))
	if err != nil {
		return fmt.Errorf("kvengine: open compaction file: %w", err)
	}

	type liveEntry struct {
		key string
		loc Location
	}
	var live []liveEntry
	e.idx.Range(func(key string, loc Location) bool {
		live = append(live, liveEntry{key: key, loc: loc})
		return true
	})

	for _, ent := range live {
		e.readersMu.RLock()
		src := e.readers[ent.loc.FileID]
		e.readersMu.RUnlock()
		if src == nil {
			compactWriter.Close()
			return fmt.Errorf("kvengine: compaction: no reader for generation %d", ent.loc.FileID)
		}

		buf := make([]byte, ent.loc.Length)
		if _, err := src.ReadAt(buf, ent.loc.Offset); err != nil {
			compactWriter.Close()
			return fmt.Errorf("kvengine: compaction: read %s: %w", ent.key, err)
		}

		newOffset := compactWriter.Pos()
		if _, err := compactWriter.Write(buf); err != nil {
			compactWriter.Close()
			return fmt.Errorf("kvengine: compaction: write %s: %w", ent.key, err)
		}

		e.idx.set(ent.key, Location{FileID: gc, Offset: newOffset, Length: ent.loc.Length})
	}

	if err := compactWriter.Flush(); err != nil {
		compactWriter.Close()
		return fmt.Errorf("kvengine: compaction: flush: %w", err)
	}

	compactReader, err := NewPositionedReader(e.genPath(gc))
	if err != nil {
		compactWriter.Close()
		return fmt.Errorf("kvengine: compaction: reopen %d.log: %w", gc, err)
	}

	newWriter, err := NewPositionedWriter(e.genPath(gw))
	if err != nil {
		compactWriter.Close()
		compactReader.Close()
		return fmt.Errorf("kvengine: compaction: open %d.log: %w", gw, err)
	}
	newWriterReader, err := NewPositionedReader(e.genPath(gw))
	if err != nil {
		compactWriter.Close()
		compactReader.Close()
		newWriter.Close()
		return fmt.Errorf("kvengine: compaction: reopen %d.log: %w", gw, err)
	}

	oldWriter := e.writer
	e.writer = newWriter
	e.currentGen = gw

	e.readersMu.Lock()
	e.readers[gc] = compactReader
	e.readers[gw] = newWriterReader
	var stale []uint64
	for id := range e.readers {
		if id < gc {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		e.readers[id].Close()
		delete(e.readers, id)
	}
	e.readersMu.Unlock()

	if err := oldWriter.Close(); err != nil {
		e.logger.Error("compaction: close old writer failed", "error", err)
	}
	if err := compactWriter.Close(); err != nil {
		e.logger.Error("compaction: close compaction writer failed", "error", err)
	}

	for _, id := range stale {
		if err := os.Remove(e.genPath(id)); err != nil && !os.IsNotExist(err) {
			e.logger.Error("compaction: remove stale generation failed", "generation", id, "error", err)
		}
	}

	e.staleBytes = 0
	if e.cfg.Metrics != nil {
		e.cfg.Metrics.IncCompactions()
	}
	e.logger.Info("compaction complete", "compaction_generation", gc, "writer_generation", gw, "live_keys", len(live))
	return nil
}
