package repository

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

//go:embed schema_postgres.sql
var postgresSchema string

// PostgresCourseRepository is the pgx-backed CourseRepository.
type PostgresCourseRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresCourseRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresCourseRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCourseRepository{pool: pool, logger: logger}
}

// EnsureSchema creates the courses table if it is missing.
func (r *PostgresCourseRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (r *PostgresCourseRepository) ReplaceCourses(ctx context.Context, ownerID string, courses []entity.Course) ([]entity.Course, error) {
	return r.insert(ctx, ownerID, courses, true)
}

func (r *PostgresCourseRepository) AppendCourses(ctx context.Context, ownerID string, courses []entity.Course) ([]entity.Course, error) {
	return r.insert(ctx, ownerID, courses, false)
}

func (r *PostgresCourseRepository) insert(ctx context.Context, ownerID string, courses []entity.Course, replace bool) ([]entity.Course, error) {
	stamped := stampCourses(ownerID, courses, time.Now().UTC())

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		base := 0
		if replace {
			tag, err := tx.Exec(ctx, `DELETE FROM courses WHERE owner_id = $1`, ownerID)
			if err != nil {
				return fmt.Errorf("delete courses: %w", err)
			}
			r.logger.Debug("db.courses.deleted", "owner_id", ownerID, "rows", tag.RowsAffected())
		} else {
			if err := tx.QueryRow(ctx,
				`SELECT COALESCE(MAX(position) + 1, 0) FROM courses WHERE owner_id = $1`, ownerID,
			).Scan(&base); err != nil {
				return fmt.Errorf("next position: %w", err)
			}
		}

		batch := &pgx.Batch{}
		for i, c := range stamped {
			blocks, err := encodeBlocks(c.Blocks)
			if err != nil {
				return err
			}
			batch.Queue(
				`INSERT INTO courses (id, owner_id, position, name, description, instructor, location, color, blocks, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::jsonb, $10)`,
				c.ID, c.OwnerID, base+i, c.Name, c.Description, c.Instructor, c.Location, c.Color, string(blocks), c.CreatedAt,
			)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert courses: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("db.courses.insert_failed", "owner_id", ownerID, "replace", replace, "error", err)
		return nil, err
	}
	r.logger.Info("db.courses.inserted", "owner_id", ownerID, "count", len(stamped), "replace", replace)
	return stamped, nil
}

func (r *PostgresCourseRepository) ListCourses(ctx context.Context, ownerID string) ([]entity.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name, description, instructor, location, color, blocks::text, created_at
		 FROM courses WHERE owner_id = $1 ORDER BY position`, ownerID)
	if err != nil {
		r.logger.Error("db.courses.list_failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []entity.Course
	for rows.Next() {
		var (
			c      entity.Course
			blocks string
		)
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Instructor, &c.Location, &c.Color, &blocks, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
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

func (r *PostgresCourseRepository) Close() error {
	r.logger.Info("db.close")
	r.pool.Close()
	return nil
}
