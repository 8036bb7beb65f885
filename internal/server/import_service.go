package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/timetable-import/internal/common"
	"github.com/joseph-ayodele/timetable-import/internal/export"
	"github.com/joseph-ayodele/timetable-import/internal/services/importer"
)

// ImportServer exposes the import use case over gRPC.
type ImportServer struct {
	svc      *importer.Service
	exporter *export.Service
	logger   *slog.Logger
}

func NewImportServer(svc *importer.Service, exporter *export.Service, logger *slog.Logger) *ImportServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportServer{svc: svc, exporter: exporter, logger: logger}
}

func (s *ImportServer) ImportAnnotations(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ImportAnnotationsRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	out, err := s.svc.ImportAnnotations(ctx, importer.AnnotationsRequest{
		OwnerID:         req.OwnerID,
		Annotations:     req.Annotations,
		Page:            req.Page,
		ReplaceExisting: req.ReplaceExisting,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return encodeStruct(importResponse(out))
}

func (s *ImportServer) ImportReply(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ImportReplyRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	out, err := s.svc.ImportReply(ctx, importer.ReplyRequest{
		OwnerID:         req.OwnerID,
		Reply:           req.Reply,
		ReplaceExisting: req.ReplaceExisting,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return encodeStruct(importResponse(out))
}

func (s *ImportServer) ImportImage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ImportImageRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	out, err := s.svc.ImportImage(ctx, importer.ImageRequest{
		OwnerID:         req.OwnerID,
		Path:            req.Path,
		Mode:            importer.ImageMode(strings.ToLower(strings.TrimSpace(req.Mode))),
		Hint:            req.Hint,
		ReplaceExisting: req.ReplaceExisting,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return encodeStruct(importResponse(out))
}

func (s *ImportServer) ImportDirectory(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ImportDirectoryRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	res, err := s.svc.ImportDirectory(ctx, importer.DirectoryRequest{
		OwnerID:    req.OwnerID,
		RootPath:   req.RootPath,
		Mode:       importer.ImageMode(strings.ToLower(strings.TrimSpace(req.Mode))),
		Hint:       req.Hint,
		SkipHidden: req.SkipHidden,
	})
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return encodeStruct(ImportDirectoryResponse{Stats: res.Stats, Results: res.Results})
}

func (s *ImportServer) ListCourses(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ListCoursesRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	courses, err := s.svc.ListCourses(ctx, req.OwnerID)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return encodeStruct(ListCoursesResponse{Courses: courses})
}

func (s *ImportServer) ExportCourses(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ExportCoursesRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, common.InvalidArgumentError(err.Error())
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	v := common.NewValidator().
		Field("owner_id", req.OwnerID, common.Required, common.MaxLen(128)).
		Field("format", format, common.Required, common.OneOf("xlsx", "ics")).
		Field("weeks", req.Weeks, common.NonNegative)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, common.ToStatus(err)
	}
	owner := strings.TrimSpace(req.OwnerID)

	var (
		data []byte
		err  error
	)
	switch format {
	case "ics":
		opts := export.ICSOptions{Weeks: req.Weeks, Location: time.UTC}
		if wd := strings.TrimSpace(req.WeekOf); wd != "" {
			t, perr := time.Parse("2006-01-02", wd)
			if perr != nil {
				return nil, common.InvalidArgumentErrorf("week_of must be YYYY-MM-DD: %v", perr)
			}
			opts.WeekOf = t
		}
		data, err = s.exporter.ExportICS(ctx, owner, opts)
	default:
		data, err = s.exporter.ExportXLSX(ctx, owner)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "grpc.export.failed", "owner_id", owner, "format", format, "err", err)
		return nil, common.InternalErrorf("export %s: %v", format, err)
	}
	return encodeStruct(ExportCoursesResponse{
		Format:   format,
		Filename: fmt.Sprintf("timetable_%s.%s", owner, format),
		Data:     data,
	})
}
