package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteCourseRepository is the CourseRepository used by the CLI and tests.
type SQLiteCourseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteCourseRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	logger.Info("db.connect.ok", "driver", "sqlite", "path", path)
	return &SQLiteCourseRepository{db: db, logger: logger}, nil
}

func (r *SQLiteCourseRepository) ReplaceCourses(ctx context.Context, ownerID string, courses []entity.Course) ([]entity.Course, error) {
	return r.insert(ctx, ownerID, courses, true)
}

func (r *SQLiteCourseRepository) AppendCourses(ctx context.Context, ownerID string, courses []entity.Course) ([]entity.Course, error) {
	return r.insert(ctx, ownerID, courses, false)
}

func (r *SQLiteCourseRepository) insert(ctx context.Context, ownerID string, courses []entity.Course, replace bool) (_ []entity.Course, err error) {
	stamped := stampCourses(ownerID, courses, time.Now().UTC())

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			r.logger.Error("db.courses.insert_failed", "owner_id", ownerID, "replace", replace, "error", err)
		}
	}()

	base := 0
	if replace {
		if _, err = tx.ExecContext(ctx, `DELETE FROM courses WHERE owner_id = ?`, ownerID); err != nil {
			return nil, fmt.Errorf("delete courses: %w", err)
		}
	} else if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM courses WHERE owner_id = ?`, ownerID,
	).Scan(&base); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	for i, c := range stamped {
		var blocks []byte
		if blocks, err = encodeBlocks(c.Blocks); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO courses (id, owner_id, position, name, description, instructor, location, color, blocks, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID.String(), c.OwnerID, base+i, c.Name, c.Description, c.Instructor, c.Location, c.Color,
			string(blocks), c.CreatedAt.Format(time.RFC3339Nano),
		); err != nil {
			return nil, fmt.Errorf("insert course: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	r.logger.Info("db.courses.inserted", "owner_id", ownerID, "count", len(stamped), "replace", replace)
	return stamped, nil
}

func (r *SQLiteCourseRepository) ListCourses(ctx context.Context, ownerID string) ([]entity.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, instructor, location, color, blocks, created_at
		 FROM courses WHERE owner_id = ? ORDER BY position`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []entity.Course
	for rows.Next() {
		var (
			c                   entity.Course
			id, blocks, created string
		)
		if err := rows.Scan(&id, &c.OwnerID, &c.Name, &c.Description, &c.Instructor, &c.Location, &c.Color, &blocks, &created); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse course id: %w", err)
		}
		if c.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		if c.Blocks, err = decodeBlocks([]byte(blocks)); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return out, nil
}

func (r *SQLiteCourseRepository) Close() error {
	return r.db.Close()
}
