package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/handiism/music-manager/internal/audio"
	"github.com/handiism/music-manager/internal/config"
	ioutils "github.com/handiism/music-manager/internal/io"
	"github.com/handiism/music-manager/internal/logging"
	"github.com/handiism/music-manager/internal/model"
	"github.com/handiism/music-manager/internal/rules"
	"golang.org/x/sync/errgroup"
)

// TagsOnlySuffix is appended to the library location to name the default
// extract-tags destination.
const TagsOnlySuffix = " Tags Only"

// ErrNoLocation is returned when the library location does not exist or is
// not a directory.
var ErrNoLocation = errors.New("library location not found")

// ErrFilePanic is recorded as the failure of a file whose processing
// panicked.
var ErrFilePanic = errors.New("file processing panicked")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update of a library run.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// TagStore reads and writes tag records. *audio.Store implements it.
type TagStore interface {
	Read(path string) (*model.Record, error)
	Write(rec *model.Record) error
	Picture(path string) (*audio.Picture, error)
}

// Manager runs the rule set over a music library.
type Manager struct {
	settings     *config.Settings
	store        TagStore
	rules        *rules.Set
	logger       *log.Logger
	imageService *ioutils.ImageService

	totalFiles     int32
	processedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new library Manager. A nil logger discards log output
// and a nil onProgress drops progress events. onProgress is called from the
// worker goroutines and must be safe for concurrent use.
func NewManager(settings *config.Settings, store TagStore, set *rules.Set, logger *log.Logger, onProgress func(ProgressEvent)) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Manager{
		settings:     settings,
		store:        store,
		rules:        set,
		logger:       logger,
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Clean applies every rule to every included file under the library
// location and writes changed records back when UpdateTags is set.
//
// Failing files and rules are logged, counted in the report and skipped; the
// run goes on. The returned error is non-nil only when the run could not
// start or was cancelled, in which case the partial report is still returned.
func (m *Manager) Clean(ctx context.Context) (*Report, error) {
	return m.run(ctx, "clean", m.settings.LibraryLocation, func(ctx context.Context, logger *log.Logger, path string) fileResult {
		return m.cleanFile(logger, path)
	})
}

// ExtractTags exports the tags of every included file under location as
// JSON into a mirror of the library tree below destination. Each file gets
// "<file name>.json" and, with ExtractArtwork, "<file name>.jpg" holding its
// front cover. With a rule set, the exported tags are the cleaned ones; the
// audio files themselves are never written.
//
// An empty location uses the library location; an empty destination uses the
// location followed by TagsOnlySuffix.
func (m *Manager) ExtractTags(ctx context.Context, location, destination string) (*Report, error) {
	if location == "" {
		location = m.settings.LibraryLocation
	}
	location = filepath.Clean(location)
	if destination == "" {
		destination = location + TagsOnlySuffix
	}
	destination = filepath.Clean(destination)

	return m.run(ctx, "extract-tags", location, func(ctx context.Context, logger *log.Logger, path string) fileResult {
		return m.extractFile(ctx, logger, location, destination, path)
	}, destination)
}

// Progress returns how many files the current run has processed out of its
// total.
func (m *Manager) Progress() (processed, total int32) {
	return atomic.LoadInt32(&m.processedFiles), atomic.LoadInt32(&m.totalFiles)
}

type fileFunc func(ctx context.Context, logger *log.Logger, path string) fileResult

// run walks location and hands every included file to fn on the worker pool.
// Directories listed in skip are not descended into.
func (m *Manager) run(ctx context.Context, op, location string, fn fileFunc, skip ...string) (*Report, error) {
	// One run at a time per manager; the progress counters are shared.
	m.mu.Lock()
	defer m.mu.Unlock()

	started := time.Now()
	report := &Report{RunID: uuid.NewString()}
	logger := m.logger.With("run", report.RunID)

	files, err := m.collect(ctx, location, skip)
	if err != nil {
		logger.Error("run failed", "op", op, "location", location, "err", err)
		report.finish(started)
		return report, err
	}

	report.Files = len(files)
	atomic.StoreInt32(&m.totalFiles, int32(len(files)))
	atomic.StoreInt32(&m.processedFiles, 0)

	logger.Info("starting", "op", op, "location", location, "files", len(files))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d files in %s", len(files), location), Level: LevelInfo})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.settings.MaxConcurrentFiles))

	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.record(m.process(gctx, fn, logger.With("path", path), path))
			atomic.AddInt32(&m.processedFiles, 1)
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	report.finish(started)

	if err != nil {
		logger.Warn("run stopped", "op", op, "err", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Stopped: %v", err), Level: LevelError})
		return report, err
	}

	logger.Info("finished", "op", op,
		"files", report.Files, "updated", report.Updated,
		"unchanged", report.Unchanged, "failed", report.Failed,
		"duration", report.Duration.Round(time.Millisecond))

	level := LevelSuccess
	if report.Failed > 0 {
		level = LevelWarning
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Finished %d files: %d updated, %d failed", report.Files, report.Updated, report.Failed),
		Level:   level,
	})
	return report, nil
}

// process runs fn for one file. A panic fails that file only.
func (m *Manager) process(ctx context.Context, fn fileFunc, logger *log.Logger, path string) (res fileResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrFilePanic, r)
			logger.Error("file panicked", "err", err)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error processing %s: %v", filepath.Base(path), err), Level: LevelError})
			res = fileResult{failures: []Failure{{Path: path, Err: err}}}
		}
	}()
	return fn(ctx, logger, path)
}

// collect lists the included files under root in walk order.
func (m *Manager) collect(ctx context.Context, root string, skip []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoLocation, root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoLocation, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			m.logger.Warn("skipping unreadable entry", "path", path, "err", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			for _, s := range skip {
				if path == s {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if d.Type().IsRegular() && m.settings.Includes(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (m *Manager) cleanFile(logger *log.Logger, path string) fileResult {
	var res fileResult
	fail := func(rule string, err error) {
		res.failures = append(res.failures, Failure{Path: path, Rule: rule, Err: err})
	}

	rec, err := m.store.Read(path)
	if err != nil {
		logger.Error("read failed", "err", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error reading %s: %v", filepath.Base(path), err), Level: LevelError})
		fail("", err)
		return res
	}

	if m.settings.InferTagsFromPath {
		if filled := rec.FillFromPath(); len(filled) > 0 {
			logger.Debug("filled from path", "fields", strings.Join(filled, ","))
		}
	}

	results, _ := m.rules.Run(rec)
	for _, r := range results {
		switch {
		case r.Err != nil:
			logger.Warn("rule failed", "rule", r.Rule, "err", r.Err)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Rule %s failed on %s: %v", r.Rule, filepath.Base(path), r.Err), Level: LevelWarning})
			fail(r.Rule, r.Err)
		case r.Changed:
			logger.Debug("rule applied", "rule", r.Rule, "field", r.Field, "before", r.Before, "after", r.After)
		}
	}

	if !rec.IsModified() {
		return res
	}
	res.changed = true

	if !m.settings.UpdateTags {
		logger.Info("tags would change", "fields", strings.Join(rec.Modified(), ","))
		return res
	}

	fields := rec.Modified()
	if err := m.store.Write(rec); err != nil {
		logger.Error("write failed", "err", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error writing %s: %v", filepath.Base(path), err), Level: LevelError})
		fail("", err)
		return res
	}

	res.updated = true
	logger.Info("tags updated", "fields", strings.Join(fields, ","))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Updated: %s", filepath.Base(path)), Level: LevelVerbose})
	return res
}

func (m *Manager) extractFile(ctx context.Context, logger *log.Logger, location, destination, path string) fileResult {
	var res fileResult
	fail := func(err error) fileResult {
		logger.Error("export failed", "err", err)
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error exporting %s: %v", filepath.Base(path), err), Level: LevelError})
		res.failures = append(res.failures, Failure{Path: path, Err: err})
		return res
	}

	rec, err := m.store.Read(path)
	if err != nil {
		return fail(err)
	}
	if m.rules != nil {
		results, _ := m.rules.Run(rec)
		for _, r := range results {
			if r.Err != nil {
				logger.Warn("rule failed", "rule", r.Rule, "err", r.Err)
				res.failures = append(res.failures, Failure{Path: path, Rule: r.Rule, Err: r.Err})
			}
		}
		res.changed = rec.IsModified()
	}

	out, err := ioutils.MirrorPath(location, destination, path)
	if err != nil {
		return fail(err)
	}
	if err := ioutils.WriteJSON(ctx, out+".json", rec); err != nil {
		return fail(err)
	}
	res.updated = true

	if m.settings.ExtractArtwork {
		if err := m.extractArtwork(ctx, path, out+".jpg"); err != nil {
			// The tags are exported; a bad cover only warns.
			logger.Warn("artwork not saved", "err", err)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error saving artwork for %s: %v", filepath.Base(path), err), Level: LevelWarning})
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Exported: %s", filepath.Base(path)), Level: LevelVerbose})
	return res
}

func (m *Manager) extractArtwork(ctx context.Context, path, out string) error {
	pic, err := m.store.Picture(path)
	if err != nil || pic == nil {
		return err
	}

	size := m.settings.ArtworkMaxSize
	var data []byte
	if size > 0 {
		data, err = m.imageService.ResizeImage(ctx, pic.Data, size, size)
	} else {
		data, err = m.imageService.ConvertToJPEG(ctx, pic.Data)
	}
	if err != nil {
		return err
	}
	return ioutils.WriteFile(ctx, out, data)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
