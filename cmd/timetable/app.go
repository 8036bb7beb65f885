package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/timetable-import/internal/common"
	"github.com/joseph-ayodele/timetable-import/internal/llm"
	"github.com/joseph-ayodele/timetable-import/internal/llm/openai"
	"github.com/joseph-ayodele/timetable-import/internal/ocr"
	"github.com/joseph-ayodele/timetable-import/internal/pipeline"
	"github.com/joseph-ayodele/timetable-import/internal/repository"
	"github.com/joseph-ayodele/timetable-import/internal/services/importer"
)

// app holds what every subcommand shares: settings, logger and lazily opened storage.
type app struct {
	sqlitePath string
	verbose    bool

	cfg    *common.Config
	logger *slog.Logger
}

func (a *app) init() error {
	a.cfg = common.LoadConfig()
	if a.sqlitePath != "" {
		a.cfg.Database.DSN = ""
		a.cfg.Database.SQLitePath = a.sqlitePath
	}
	if a.verbose {
		a.cfg.Log.Level = "debug"
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	a.logger = a.cfg.Log.NewLogger()
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) importer() *pipeline.Importer {
	if a.verbose {
		return pipeline.NewImporter(a.logger)
	}
	return pipeline.NewImporter(nil)
}

func (a *app) openRepo(ctx context.Context) (repository.CourseRepository, error) {
	db := a.cfg.Database
	repo, err := repository.Open(ctx, repository.Config{
		DSN:              db.DSN,
		SQLitePath:       db.SQLitePath,
		MaxConns:         db.MaxConns,
		MinConns:         db.MinConns,
		MaxConnLifetime:  db.MaxConnLifetime,
		MaxConnIdleTime:  db.MaxConnIdleTime,
		DialTimeout:      db.DialTimeout,
		StatementTimeout: db.StatementTimeout,
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return repo, nil
}

func (a *app) annotator() *ocr.Extractor {
	c := a.cfg.OCR
	return ocr.NewExtractor(ocr.Config{
		Tesseract:     c.Tesseract,
		TesseractLang: c.Lang,
		TessdataDir:   c.TessdataDir,
		PSM:           c.PSM,
		MinConfidence: c.MinConfidence,
	}, a.logger)
}

// vision returns nil when no API key is configured.
func (a *app) vision() llm.ScheduleReader {
	c := a.cfg.LLM
	if c.APIKey == "" {
		return nil
	}
	return openai.NewClient(openai.Config{
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}, a.logger)
}

// service opens storage and builds the import service. Callers must close the repository.
func (a *app) service(ctx context.Context) (*importer.Service, repository.CourseRepository, error) {
	repo, err := a.openRepo(ctx)
	if err != nil {
		return nil, nil, err
	}
	return importer.NewService(a.importer(), repo, a.annotator(), a.vision(), a.logger), repo, nil
}
