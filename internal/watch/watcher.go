// Package watch re-converts robot descriptions as they change on disk.
package watch

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/volttools/urdfconv/internal/output"
)

const (
	// resultChannelBuffer is the size of the result channel.
	resultChannelBuffer = 64

	defaultDebounce = 200 * time.Millisecond
	sourceExtension = ".urdf"
)

// Converter converts one file and returns the written path.
type Converter interface {
	ConvertFile(in, out string, f output.Format) (string, error)
}

// Config configures a Watcher.
type Config struct {
	// Dir is the directory whose .urdf files are watched. Subdirectories are not.
	Dir string

	// Format selects the output encoding.
	Format output.Format

	// OutputDir receives the converted files. Empty writes next to the input.
	OutputDir string

	// Debounce is how long changes accumulate before they are converted.
	Debounce time.Duration

	// ConvertExisting converts the files already present when Run starts.
	ConvertExisting bool

	Logger *slog.Logger
}

// Result reports one conversion.
type Result struct {
	Input  string
	Output string
	Err    error
}

// Watcher converts robot descriptions in a directory whenever they change.
type Watcher struct {
	cfg       Config
	converter Converter
	watcher   *fsnotify.Watcher
	logger    *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	// content hashes of the last converted version of each file
	hashes map[string][sha256.Size]byte

	results chan Result
	dropped atomic.Int64
}

// New creates a Watcher and starts watching cfg.Dir immediately, so that
// changes made between New and Run are not lost.
func New(cfg Config, converter Converter) (*Watcher, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory: %s is not a directory", cfg.Dir)
	}

	if cfg.Format == "" {
		cfg.Format = output.FormatJSON
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", cfg.Dir, err)
	}

	return &Watcher{
		cfg:       cfg,
		converter: converter,
		watcher:   fsw,
		logger:    logger,
		pending:   make(map[string]fsnotify.Op),
		hashes:    make(map[string][sha256.Size]byte),
		results:   make(chan Result, resultChannelBuffer),
	}, nil
}

// Results returns the channel of conversion results. It is closed when Run returns.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// DroppedResults returns the number of results dropped because nobody was reading.
func (w *Watcher) DroppedResults() int64 {
	return w.dropped.Load()
}

// Run processes file events until ctx is cancelled or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.results)
	defer w.watcher.Close()

	w.logger.Info("Watching for robot descriptions",
		"dir", w.cfg.Dir,
		"format", w.cfg.Format,
		"debounce", w.cfg.Debounce)

	if w.cfg.ConvertExisting {
		if err := w.convertExisting(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("Watcher event overflow", "error", err)
				continue
			}
			return fmt.Errorf("watching %s: %w", w.cfg.Dir, err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) convertExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", w.cfg.Dir, err)
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil
		}
		if entry.IsDir() || !isSource(entry.Name()) {
			continue
		}
		w.convert(filepath.Join(w.cfg.Dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isSource(event.Name) {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(w.hashes, event.Name)
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	w.pendingMu.Lock()
	w.pending[event.Name] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Robot description change detected",
		"path", event.Name,
		"op", event.Op.String())
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	sort.Strings(paths)
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		w.convert(path)
	}
}

// convert converts path unless its content is unchanged since the last conversion.
func (w *Watcher) convert(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.send(Result{Input: path, Err: err})
		}
		return
	}
	// editors and os.WriteFile truncate before writing; wait for the write event
	if len(content) == 0 {
		return
	}

	sum := sha256.Sum256(content)
	if old, ok := w.hashes[path]; ok && old == sum {
		return
	}
	w.hashes[path] = sum

	out, err := w.converter.ConvertFile(path, w.outputPath(path), w.cfg.Format)
	if err != nil {
		w.logger.Warn("Conversion failed", "path", path, "error", err)
	} else {
		w.logger.Info("Converted", "input", path, "output", out)
	}
	w.send(Result{Input: path, Output: out, Err: err})
}

func (w *Watcher) outputPath(in string) string {
	if w.cfg.OutputDir == "" {
		return ""
	}
	return filepath.Join(w.cfg.OutputDir, filepath.Base(output.DeriveOutputPath(in, w.cfg.Format)))
}

func (w *Watcher) send(r Result) {
	select {
	case w.results <- r:
	default:
		dropped := w.dropped.Add(1)
		w.logger.Warn("Result channel full, dropping result",
			"path", r.Input,
			"total_dropped", dropped)
	}
}

func isSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), sourceExtension)
}
