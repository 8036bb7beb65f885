package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/timetable-import/internal/llm"
)

var _ llm.ScheduleReader = (*Client)(nil)

// ReadSchedule sends the timetable (image when given, OCR text otherwise) to the
// chat/completions endpoint and returns the model's reply text unparsed.
func (c *Client) ReadSchedule(ctx context.Context, req llm.VisionRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	var dataURL string
	if req.ImagePath != "" {
		u, err := llm.ReadImageDataURL(req.ImagePath)
		if err != nil {
			c.logger.Error("llm.vision.image_error", "req_id", rid, "path", req.ImagePath, "error", err)
			return "", fmt.Errorf("load image: %w", err)
		}
		dataURL = u
	} else if strings.TrimSpace(req.OCRText) == "" {
		return "", fmt.Errorf("nothing to read: no image and no OCR text")
	}

	c.logger.Info("llm.vision.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"image", dataURL != "",
		"text_len", len(req.OCRText),
	)

	userContent := []map[string]any{
		{"type": "text", "text": llm.BuildUserPrompt(req, dataURL != "")},
	}
	if dataURL != "" {
		userContent = append(userContent, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": dataURL},
		})
	}
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": userContent},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if err != nil {
		c.logger.Error("llm.vision.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("openai request: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.vision.no_choices", "req_id", rid, "raw_bytes", len(raw))
		return "", fmt.Errorf("no choices in openai response")
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)

	c.logger.Info("llm.vision.ok",
		"req_id", rid,
		"reply_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
