package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/timetable-import/internal/async"
	"github.com/joseph-ayodele/timetable-import/internal/common"
	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/layout"
	"github.com/joseph-ayodele/timetable-import/internal/llm"
	"github.com/joseph-ayodele/timetable-import/internal/ocr"
	"github.com/joseph-ayodele/timetable-import/internal/pipeline"
	"github.com/joseph-ayodele/timetable-import/internal/repository"
)

// NoItemsMessage is reported when an import extracted nothing.
const NoItemsMessage = "no schedule items detected"

// Annotator runs OCR on an image file.
type Annotator interface {
	Annotate(ctx context.Context, path string) (ocr.Result, error)
}

// Service runs the import use case: extract, normalize, persist.
type Service struct {
	importer *pipeline.Importer
	repo     repository.CourseRepository
	ocr      Annotator
	vision   llm.ScheduleReader
	queue    async.Queue
	logger   *slog.Logger
}

// NewService creates the import service. annotator and vision may be nil when the
// corresponding image path is not configured.
func NewService(imp *pipeline.Importer, repo repository.CourseRepository, annotator Annotator, vision llm.ScheduleReader, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if imp == nil {
		imp = pipeline.NewImporter(nil)
	}
	return &Service{importer: imp, repo: repo, ocr: annotator, vision: vision, logger: logger}
}

// Outcome is what a caller sees of an import: counts, the stored courses and a message.
type Outcome struct {
	Created int
	Skipped int
	Courses []entity.Course
	Message string
	Stats   pipeline.Stats
}

// AnnotationsRequest imports OCR annotations.
type AnnotationsRequest struct {
	OwnerID         string
	Annotations     []layout.Annotation
	Page            layout.Page
	ReplaceExisting bool
}

// ReplyRequest imports a vision model reply.
type ReplyRequest struct {
	OwnerID         string
	Reply           string
	ReplaceExisting bool
}

// ImageMode selects how an image is read.
type ImageMode string

const (
	ImageModeOCR    ImageMode = "ocr"
	ImageModeVision ImageMode = "vision"
)

// ImageRequest imports a timetable image through OCR or the vision model.
type ImageRequest struct {
	OwnerID         string
	Path            string
	Mode            ImageMode
	Hint            string
	ReplaceExisting bool
}

func (s *Service) ImportAnnotations(ctx context.Context, req AnnotationsRequest) (Outcome, error) {
	if err := validateOwner(req.OwnerID); err != nil {
		return Outcome{}, err
	}
	s.log(ctx).Info("import.annotations.start", "owner_id", req.OwnerID, "annotations", len(req.Annotations))
	res := s.importer.FromAnnotations(req.Annotations, req.Page)
	return s.persist(ctx, strings.TrimSpace(req.OwnerID), res, req.ReplaceExisting)
}

func (s *Service) ImportReply(ctx context.Context, req ReplyRequest) (Outcome, error) {
	if err := validateOwner(req.OwnerID); err != nil {
		return Outcome{}, err
	}
	s.log(ctx).Info("import.reply.start", "owner_id", req.OwnerID, "reply_len", len(req.Reply))
	res := s.importer.FromReply(req.Reply)
	return s.persist(ctx, strings.TrimSpace(req.OwnerID), res, req.ReplaceExisting)
}

func (s *Service) ImportImage(ctx context.Context, req ImageRequest) (Outcome, error) {
	if req.Mode == "" {
		req.Mode = ImageModeOCR
	}
	v := common.NewValidator().
		Field("owner_id", req.OwnerID, common.Required, common.MaxLen(128)).
		Field("path", req.Path, common.Required).
		Field("mode", string(req.Mode), common.OneOf(string(ImageModeOCR), string(ImageModeVision)))
	if err := common.ValidateAndReturnError(v); err != nil {
		return Outcome{}, err
	}
	owner := strings.TrimSpace(req.OwnerID)

	switch req.Mode {
	case ImageModeVision:
		if s.vision == nil {
			return Outcome{}, common.FailedPreconditionError("vision model is not configured")
		}
		reply, err := s.vision.ReadSchedule(ctx, llm.VisionRequest{ImagePath: req.Path, Hint: req.Hint})
		if err != nil {
			s.log(ctx).Error("import.image.vision_failed", "owner_id", owner, "path", req.Path, "error", err)
			return Outcome{}, status.Errorf(codes.Unavailable, "vision model: %v", err)
		}
		return s.persist(ctx, owner, s.importer.FromReply(reply), req.ReplaceExisting)
	default:
		if s.ocr == nil {
			return Outcome{}, common.FailedPreconditionError("ocr is not configured")
		}
		r, err := s.ocr.Annotate(ctx, req.Path)
		if err != nil {
			s.log(ctx).Error("import.image.ocr_failed", "owner_id", owner, "path", req.Path, "error", err)
			return Outcome{}, status.Errorf(codes.InvalidArgument, "ocr: %v", err)
		}
		return s.persist(ctx, owner, s.importer.FromAnnotations(r.Annotations, r.Page), req.ReplaceExisting)
	}
}

func (s *Service) ListCourses(ctx context.Context, ownerID string) ([]entity.Course, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	courses, err := s.repo.ListCourses(ctx, strings.TrimSpace(ownerID))
	if err != nil {
		return nil, common.InternalErrorf("list courses: %v", err)
	}
	return courses, nil
}

// persist stores a pipeline result. An empty result is reported, not stored, so a
// failed extraction never wipes the owner's existing courses.
func (s *Service) persist(ctx context.Context, owner string, res pipeline.Result, replace bool) (Outcome, error) {
	out := Outcome{Skipped: res.Stats.SkippedCourses, Stats: res.Stats, Courses: []entity.Course{}}
	if len(res.Courses) == 0 {
		out.Message = NoItemsMessage
		s.log(ctx).Info("import.empty", "owner_id", owner, "candidates", res.Stats.Candidates)
		return out, nil
	}

	var (
		saved []entity.Course
		err   error
	)
	if replace {
		saved, err = s.repo.ReplaceCourses(ctx, owner, res.Courses)
	} else {
		saved, err = s.repo.AppendCourses(ctx, owner, res.Courses)
	}
	if err != nil {
		return Outcome{}, common.InternalErrorf("save courses: %v", err)
	}

	out.Created = len(saved)
	out.Courses = saved
	out.Message = fmt.Sprintf("imported %d courses", len(saved))
	s.log(ctx).Info("import.ok",
		"owner_id", owner,
		"created", out.Created,
		"skipped", out.Skipped,
		"replace", replace,
	)
	return out, nil
}

func validateOwner(ownerID string) error {
	v := common.NewValidator().Field("owner_id", ownerID, common.Required, common.MaxLen(128))
	return common.ValidateAndReturnError(v)
}

// log prefers the request-scoped logger the gRPC layer attaches. Otherwise the
// service logger is tagged with the request id, if any.
func (s *Service) log(ctx context.Context) *slog.Logger {
	logger := common.LoggerFromContext(ctx, s.logger)
	if id := common.RequestIDFromContext(ctx); id != "" && logger == s.logger {
		logger = logger.With("request_id", id)
	}
	return logger
}
