package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

// CourseRepository stores the imported course set of each owner.
type CourseRepository interface {
	// ReplaceCourses deletes the owner's courses and inserts the new set in one transaction.
	ReplaceCourses(ctx context.Context, ownerID string, courses []entity.Course) ([]entity.Course, error)
	// AppendCourses inserts the courses next to whatever the owner already has.
	AppendCourses(ctx context.Context, ownerID string, courses []entity.Course) ([]entity.Course, error)
	// ListCourses returns the owner's courses in insertion order.
	ListCourses(ctx context.Context, ownerID string) ([]entity.Course, error)
	Close() error
}

// stampCourses assigns ids, owner and creation time to a batch about to be inserted.
func stampCourses(ownerID string, courses []entity.Course, now time.Time) []entity.Course {
	out := make([]entity.Course, len(courses))
	for i, c := range courses {
		c.ID = uuid.New()
		c.OwnerID = ownerID
		c.CreatedAt = now
		if c.Blocks == nil {
			c.Blocks = []entity.Block{}
		}
		out[i] = c
	}
	return out
}

func encodeBlocks(blocks []entity.Block) ([]byte, error) {
	b, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}
	return b, nil
}

func decodeBlocks(raw []byte) ([]entity.Block, error) {
	var blocks []entity.Block
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	return blocks, nil
}
