package importer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/timetable-import/internal/async"
	"github.com/joseph-ayodele/timetable-import/internal/common"
	"github.com/joseph-ayodele/timetable-import/internal/ingest"
)

// DirStats counts what a directory import touched.
type DirStats struct {
	Scanned   int `json:"scanned"`
	Matched   int `json:"matched"`
	Queued    int `json:"queued"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// FileResult is the outcome for one file of a synchronous directory import.
type FileResult struct {
	Path    string `json:"path"`
	Created int    `json:"created"`
	Message string `json:"message,omitempty"`
	Err     string `json:"error,omitempty"`
}

// DirectoryRequest imports every timetable image under RootPath. Courses are
// always appended; a multi-page timetable spans several files.
type DirectoryRequest struct {
	OwnerID    string
	RootPath   string
	Mode       ImageMode
	Hint       string
	SkipHidden bool
}

type DirectoryResult struct {
	Stats   DirStats
	Results []FileResult
}

// SetQueue makes ImportDirectory hand files to q instead of importing inline.
func (s *Service) SetQueue(q async.Queue) {
	s.queue = q
}

// HandleJob imports one queued file. It is the queue's Handler.
func (s *Service) HandleJob(ctx context.Context, job async.Job) error {
	ctx = common.WithRequestID(ctx, job.ID.String())
	_, err := s.ImportImage(ctx, ImageRequest{
		OwnerID: job.OwnerID,
		Path:    job.Path,
		Mode:    ImageMode(job.Mode),
		Hint:    job.Hint,
	})
	return err
}

func (s *Service) ImportDirectory(ctx context.Context, req DirectoryRequest) (DirectoryResult, error) {
	v := common.NewValidator().
		Field("owner_id", req.OwnerID, common.Required, common.MaxLen(128)).
		Field("root_path", req.RootPath, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return DirectoryResult{}, err
	}
	owner := strings.TrimSpace(req.OwnerID)
	root := strings.TrimSpace(req.RootPath)

	paths, stats, err := scanDirectory(root, req.SkipHidden)
	if err != nil {
		return DirectoryResult{}, common.InvalidArgumentErrorf("scan %s: %v", root, err)
	}
	s.logger.Info("import.directory.start", "owner_id", owner, "root", root, "matched", stats.Matched, "queued", s.queue != nil)

	var results []FileResult
	for _, p := range paths {
		if s.queue != nil {
			job := async.Job{ID: uuid.New(), OwnerID: owner, Path: p, Mode: string(req.Mode), Hint: req.Hint}
			if err := s.queue.Enqueue(ctx, job); err != nil {
				results = append(results, FileResult{Path: p, Err: err.Error()})
				stats.Failed++
				continue
			}
			stats.Queued++
			continue
		}

		out, err := s.ImportImage(ctx, ImageRequest{OwnerID: owner, Path: p, Mode: req.Mode, Hint: req.Hint})
		if err != nil {
			results = append(results, FileResult{Path: p, Err: err.Error()})
			stats.Failed++
			continue
		}
		results = append(results, FileResult{Path: p, Created: out.Created, Message: out.Message})
		stats.Succeeded++
	}

	s.logger.Info("import.directory.done", "owner_id", owner, "root", root,
		"scanned", stats.Scanned, "matched", stats.Matched, "queued", stats.Queued,
		"succeeded", stats.Succeeded, "failed", stats.Failed)
	return DirectoryResult{Stats: stats, Results: results}, nil
}

// scanDirectory lists supported images and PDFs under root in lexical order.
func scanDirectory(root string, skipHidden bool) ([]string, DirStats, error) {
	var (
		paths []string
		stats DirStats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !ingest.Matches(path) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, stats, nil
}

// WatchDirectory imports timetable files as they appear under req.RootPath until
// ctx ends. Existing files are imported first.
func (s *Service) WatchDirectory(ctx context.Context, req DirectoryRequest, debounce time.Duration) error {
	v := common.NewValidator().
		Field("owner_id", req.OwnerID, common.Required, common.MaxLen(128)).
		Field("root_path", req.RootPath, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return err
	}
	owner := strings.TrimSpace(req.OwnerID)
	root := strings.TrimSpace(req.RootPath)

	events, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  req.SkipHidden,
		Debounce:    debounce,
		Logger:      s.logger,
	})
	if err != nil {
		return common.InvalidArgumentErrorf("watch %s: %v", root, err)
	}
	s.logger.Info("import.watch.start", "owner_id", owner, "root", root)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("import.watch.stop", "owner_id", owner, "root", root)
			return nil
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn("import.watch.error", "root", root, "error", err)
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if s.queue != nil {
				job := async.Job{ID: uuid.New(), OwnerID: owner, Path: path, Mode: string(req.Mode), Hint: req.Hint}
				if err := s.queue.Enqueue(ctx, job); err != nil {
					s.logger.Warn("import.watch.enqueue_failed", "path", path, "error", err)
				}
				continue
			}
			if _, err := s.ImportImage(ctx, ImageRequest{OwnerID: owner, Path: path, Mode: req.Mode, Hint: req.Hint}); err != nil {
				s.logger.Warn("import.watch.file_failed", "path", path, "error", err)
			}
		}
	}
}
