package server

import (
	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/layout"
	"github.com/joseph-ayodele/timetable-import/internal/pipeline"
	"github.com/joseph-ayodele/timetable-import/internal/services/importer"
)

// Wire shapes carried inside google.protobuf.Struct messages.

type ImportAnnotationsRequest struct {
	OwnerID         string              `json:"owner_id"`
	Annotations     []layout.Annotation `json:"annotations"`
	Page            layout.Page         `json:"page"`
	ReplaceExisting bool                `json:"replace_existing"`
}

type ImportReplyRequest struct {
	OwnerID         string `json:"owner_id"`
	Reply           string `json:"reply"`
	ReplaceExisting bool   `json:"replace_existing"`
}

type ImportImageRequest struct {
	OwnerID         string `json:"owner_id"`
	Path            string `json:"path"`
	Mode            string `json:"mode"`
	Hint            string `json:"hint"`
	ReplaceExisting bool   `json:"replace_existing"`
}

type ImportDirectoryRequest struct {
	OwnerID    string `json:"owner_id"`
	RootPath   string `json:"root_path"`
	Mode       string `json:"mode"`
	Hint       string `json:"hint"`
	SkipHidden bool   `json:"skip_hidden"`
}

type ImportResponse struct {
	Created int             `json:"created"`
	Skipped int             `json:"skipped"`
	Message string          `json:"message"`
	Courses []entity.Course `json:"courses"`
	Stats   pipeline.Stats  `json:"stats"`
}

type ImportDirectoryResponse struct {
	Stats   importer.DirStats     `json:"stats"`
	Results []importer.FileResult `json:"results"`
}

type ListCoursesRequest struct {
	OwnerID string `json:"owner_id"`
}

type ListCoursesResponse struct {
	Courses []entity.Course `json:"courses"`
}

type ExportCoursesRequest struct {
	OwnerID string `json:"owner_id"`
	Format  string `json:"format"`
	WeekOf  string `json:"week_of"`
	Weeks   int    `json:"weeks"`
}

// ExportCoursesResponse carries the file base64-encoded.
type ExportCoursesResponse struct {
	Format   string `json:"format"`
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

func importResponse(out importer.Outcome) ImportResponse {
	courses := out.Courses
	if courses == nil {
		courses = []entity.Course{}
	}
	return ImportResponse{
		Created: out.Created,
		Skipped: out.Skipped,
		Message: out.Message,
		Courses: courses,
		Stats:   out.Stats,
	}
}
