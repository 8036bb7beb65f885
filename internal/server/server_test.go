package server

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/joseph-ayodele/timetable-import/internal/export"
	"github.com/joseph-ayodele/timetable-import/internal/layout"
	"github.com/joseph-ayodele/timetable-import/internal/repository"
	"github.com/joseph-ayodele/timetable-import/internal/services/importer"
)

const reply = "```json\n" + `[{"name": "CS101", "location": "B204", "blocks": [
  {"day": "Mon", "start": "09:00", "end": "10:00"},
  {"day": "Mon", "start": "10:05", "end": "11:00"}]}]` + "\n```"

func startServer(t *testing.T) *grpc.ClientConn {
	t.Helper()
	ctx := context.Background()
	repo, err := repository.OpenSQLite(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	svc := importer.NewService(nil, repo, nil, nil, nil)
	gs, _ := NewGRPCServer(NewImportServer(svc, export.NewService(repo, nil), nil), nil)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestImportReplyAndList(t *testing.T) {
	ctx := context.Background()
	c := NewClient(startServer(t))

	var out ImportResponse
	if err := c.Call(ctx, "ImportReply", ImportReplyRequest{OwnerID: "u1", Reply: reply, ReplaceExisting: true}, &out); err != nil {
		t.Fatalf("ImportReply: %v", err)
	}
	if out.Created != 1 || out.Stats.MergedBlocks != 1 {
		t.Errorf("import response = %+v", out)
	}

	var list ListCoursesResponse
	if err := c.Call(ctx, "ListCourses", ListCoursesRequest{OwnerID: "u1"}, &list); err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(list.Courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(list.Courses))
	}
	got := list.Courses[0]
	if got.Name != "CS101" || got.Location != "B204" {
		t.Errorf("course = %+v", got)
	}
	if diff := cmp.Diff("09:00-11:00", got.Blocks[0].Start+"-"+got.Blocks[0].End); diff != "" {
		t.Errorf("merged block mismatch (-want +got):\n%s", diff)
	}
}

func TestImportAnnotationsOverGRPC(t *testing.T) {
	ctx := context.Background()
	c := NewClient(startServer(t))
	quad := func(text string, x0, y0, x1, y1 float64) layout.Annotation {
		return layout.Annotation{Text: text, Vertices: []layout.Vertex{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}}
	}
	req := ImportAnnotationsRequest{
		OwnerID: "u1",
		Annotations: []layout.Annotation{
			quad("Hour", 10, 10, 50, 30),
			quad("Mon", 150, 10, 190, 30),
			quad("Tue", 300, 10, 340, 30),
			quad("09:00-10:30", 10, 100, 110, 120),
			quad("CS101-101", 140, 100, 200, 120),
		},
	}
	var out ImportResponse
	if err := c.Call(ctx, "ImportAnnotations", req, &out); err != nil {
		t.Fatalf("ImportAnnotations: %v", err)
	}
	if out.Created != 1 || out.Courses[0].Name != "CS101-101" {
		t.Errorf("response = %+v", out)
	}
}

func TestEmptyImportMessage(t *testing.T) {
	c := NewClient(startServer(t))
	var out ImportResponse
	if err := c.Call(context.Background(), "ImportReply", ImportReplyRequest{OwnerID: "u1", Reply: "not json"}, &out); err != nil {
		t.Fatalf("ImportReply: %v", err)
	}
	if out.Created != 0 || out.Message != importer.NoItemsMessage {
		t.Errorf("response = %+v", out)
	}
}

func TestErrorCodes(t *testing.T) {
	ctx := context.Background()
	c := NewClient(startServer(t))
	tests := []struct {
		name   string
		method string
		req    any
		want   codes.Code
	}{
		{"missing owner", "ImportReply", ImportReplyRequest{Reply: reply}, codes.InvalidArgument},
		{"ocr not configured", "ImportImage", ImportImageRequest{OwnerID: "u1", Path: "t.png"}, codes.FailedPrecondition},
		{"bad export format", "ExportCourses", ExportCoursesRequest{OwnerID: "u1", Format: "pdf"}, codes.InvalidArgument},
		{"bad week", "ExportCourses", ExportCoursesRequest{OwnerID: "u1", Format: "ics", WeekOf: "next monday"}, codes.InvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]any
			err := c.Call(ctx, tc.method, tc.req, &out)
			if got := status.Code(err); got != tc.want {
				t.Errorf("code = %v (%v), want %v", got, err, tc.want)
			}
		})
	}
}

func TestExportICSOverGRPC(t *testing.T) {
	ctx := context.Background()
	c := NewClient(startServer(t))
	if err := c.Call(ctx, "ImportReply", ImportReplyRequest{OwnerID: "u1", Reply: reply}, &ImportResponse{}); err != nil {
		t.Fatalf("ImportReply: %v", err)
	}
	var out ExportCoursesResponse
	if err := c.Call(ctx, "ExportCourses", ExportCoursesRequest{OwnerID: "u1", Format: "ICS", WeekOf: "2026-09-14", Weeks: 2}, &out); err != nil {
		t.Fatalf("ExportCourses: %v", err)
	}
	if out.Filename != "timetable_u1.ics" {
		t.Errorf("filename = %q", out.Filename)
	}
	if !strings.Contains(string(out.Data), "RRULE:FREQ=WEEKLY;BYDAY=MO;COUNT=2") {
		t.Errorf("ics missing weekly rule:\n%s", out.Data)
	}
}

func TestHealth(t *testing.T) {
	resp, err := healthpb.NewHealthClient(startServer(t)).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v", resp.GetStatus())
	}
}
