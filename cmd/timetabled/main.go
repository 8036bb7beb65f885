package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joseph-ayodele/timetable-import/internal/async"
	"github.com/joseph-ayodele/timetable-import/internal/common"
	"github.com/joseph-ayodele/timetable-import/internal/export"
	"github.com/joseph-ayodele/timetable-import/internal/llm"
	"github.com/joseph-ayodele/timetable-import/internal/llm/openai"
	"github.com/joseph-ayodele/timetable-import/internal/ocr"
	"github.com/joseph-ayodele/timetable-import/internal/pipeline"
	"github.com/joseph-ayodele/timetable-import/internal/repository"
	"github.com/joseph-ayodele/timetable-import/internal/server"
	"github.com/joseph-ayodele/timetable-import/internal/services/importer"
)

func main() {
	cfg := common.LoadConfig()
	logger := cfg.Log.NewLogger()
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := cfg.Database
	repo, err := repository.Open(ctx, repository.Config{
		DSN:              db.DSN,
		SQLitePath:       db.SQLitePath,
		MaxConns:         db.MaxConns,
		MinConns:         db.MinConns,
		MaxConnLifetime:  db.MaxConnLifetime,
		MaxConnIdleTime:  db.MaxConnIdleTime,
		DialTimeout:      db.DialTimeout,
		StatementTimeout: db.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	annotator := ocr.NewExtractor(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.Lang,
		TessdataDir:   cfg.OCR.TessdataDir,
		PSM:           cfg.OCR.PSM,
		MinConfidence: cfg.OCR.MinConfidence,
	}, logger)

	var vision llm.ScheduleReader
	if cfg.LLM.APIKey != "" {
		vision = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set; vision imports disabled")
	}

	svc := importer.NewService(pipeline.NewImporter(nil), repo, annotator, vision, logger)
	queue := async.NewProcessorQueue(svc.HandleJob, logger,
		async.WithWorkers(4),
		async.WithQueueSize(256),
		async.WithProcessTimeout(cfg.LLM.Timeout+time.Minute),
	)
	svc.SetQueue(queue)

	if w := cfg.Watch; w.Enabled() {
		go func() {
			err := svc.WatchDirectory(ctx, importer.DirectoryRequest{
				OwnerID:    w.Owner,
				RootPath:   w.Dir,
				Mode:       importer.ImageMode(w.Mode),
				SkipHidden: true,
			}, w.Debounce)
			if err != nil {
				logger.Error("drop folder watch stopped", "dir", w.Dir, "error", err)
			}
		}()
	}

	grpcServer, health := server.NewGRPCServer(server.NewImportServer(svc, export.NewService(repo, logger), logger), logger)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	logger.Info("timetabled listening", "addr", addr, "postgres", db.DSN != "", "vision", vision != nil)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	health.Shutdown()
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
}
