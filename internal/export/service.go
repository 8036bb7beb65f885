package export

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/timetable-import/internal/repository"
)

// Service renders an owner's stored timetable.
type Service struct {
	repo   repository.CourseRepository
	logger *slog.Logger
}

func NewService(repo repository.CourseRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportXLSX returns the owner's courses as an XLSX workbook.
func (s *Service) ExportXLSX(ctx context.Context, ownerID string) ([]byte, error) {
	start := time.Now()
	courses, err := s.repo.ListCourses(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, courses); err != nil {
		s.logger.ErrorContext(ctx, "export.xlsx.failed", "owner_id", ownerID, "err", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "export.xlsx.ok",
		"owner_id", ownerID, "courses", len(courses), "bytes", buf.Len(), "dur_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// ExportICS returns the owner's courses as an iCalendar feed.
func (s *Service) ExportICS(ctx context.Context, ownerID string, opts ICSOptions) ([]byte, error) {
	start := time.Now()
	courses, err := s.repo.ListCourses(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	events, err := WriteICS(&buf, courses, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "export.ics.failed", "owner_id", ownerID, "err", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "export.ics.ok",
		"owner_id", ownerID, "courses", len(courses), "events", events, "dur_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}
