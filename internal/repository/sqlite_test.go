package repository

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

func openTestRepo(t *testing.T) *SQLiteCourseRepository {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func course(name string, day constants.Weekday) entity.Course {
	return entity.Course{
		Name:   name,
		Color:  "#3B82F6",
		Blocks: []entity.Block{{Day: day, Start: "09:00", End: "10:30"}},
	}
}

var ignoreStamp = cmpopts.IgnoreFields(entity.Course{}, "ID", "OwnerID", "CreatedAt")

func TestReplaceThenList(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	in := []entity.Course{course("CS101", constants.Monday), course("MA201", constants.Tuesday)}
	saved, err := repo.ReplaceCourses(ctx, "alice", in)
	if err != nil {
		t.Fatalf("ReplaceCourses: %v", err)
	}
	for _, c := range saved {
		if c.OwnerID != "alice" || c.CreatedAt.IsZero() || c.ID == uuid.Nil {
			t.Errorf("course not stamped: %+v", c)
		}
	}

	got, err := repo.ListCourses(ctx, "alice")
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if diff := cmp.Diff(in, got, ignoreStamp); diff != "" {
		t.Errorf("listed courses mismatch (-want +got):\n%s", diff)
	}
	if got[0].ID != saved[0].ID {
		t.Errorf("id round trip: %v != %v", got[0].ID, saved[0].ID)
	}
}

func TestReplaceDropsPriorSetAndAppendKeepsIt(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	if _, err := repo.ReplaceCourses(ctx, "bob", []entity.Course{course("OLD100", constants.Friday)}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.ReplaceCourses(ctx, "bob", []entity.Course{course("NEW200", constants.Monday)}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.AppendCourses(ctx, "bob", []entity.Course{course("ADD300", constants.Sunday)}); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.AppendCourses(ctx, "carol", []entity.Course{course("CAR400", constants.Sunday)}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.ListCourses(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"NEW200", "ADD300"}, names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestListUnknownOwnerIsEmpty(t *testing.T) {
	got, err := openTestRepo(t).ListCourses(context.Background(), "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v; want none", got)
	}
}
