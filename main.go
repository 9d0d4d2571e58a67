package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"solar-insights/internal/analytics/application"
	analyticsrepo "solar-insights/internal/analytics/infrastructure/postgres"
	analyticsinterfaces "solar-insights/internal/analytics/interfaces"
	"solar-insights/internal/config"
	"solar-insights/internal/observability/metrics"
	usage "solar-insights/internal/usage/domain"
	"solar-insights/internal/usage/ingest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := bootstrapLogger()
		bootLogger.Fatal().Err(err).Msg("load config")
	}

	intervalPath := flag.String("interval", cfg.IntervalPath, "path to the daily/monthly/yearly usage payload")
	hourlyPath := flag.String("hourly", cfg.HourlyPath, "path to the hourly usage payload")
	outputPath := flag.String("output", cfg.OutputPath, "path to write the analytics result JSON")
	xlsxPath := flag.String("xlsx", cfg.XLSXPath, "optional path to write an XLSX report")
	pdfPath := flag.String("pdf", cfg.PDFPath, "optional path to write a PDF report")
	databaseURL := flag.String("database-url", cfg.DatabaseURL, "optional postgres DSN to persist the run")
	flag.Parse()

	logger := newLogger(cfg.LogLevel)
	metrics.Init()

	now := time.Now().UTC()
	input := application.Input{}

	if *intervalPath != "" {
		interval, ok := decodeInterval(logger, *intervalPath)
		if ok {
			input.Interval = interval
		}
	}
	if *hourlyPath != "" {
		hourly, savings, ok := decodeHourly(logger, *hourlyPath)
		if ok {
			input.Hourly = hourly
			input.Savings = savings
		}
	}

	pipeline := application.NewPipeline(logger, cfg.Plan)
	output, err := pipeline.Run(input, now)
	if err != nil {
		logger.Fatal().Err(err).Msg("analytics run failed")
	}

	if err := writeJSON(*outputPath, output); err != nil {
		logger.Fatal().Err(err).Str("path", *outputPath).Msg("write result")
	}
	logger.Info().Str("path", *outputPath).Msg("result written")

	if *xlsxPath != "" {
		exportReport(logger, "xlsx", *xlsxPath, func() ([]byte, error) {
			return analyticsinterfaces.BuildUsageReportXLSX(output.Result, now)
		})
	}
	if *pdfPath != "" {
		exportReport(logger, "pdf", *pdfPath, func() ([]byte, error) {
			return analyticsinterfaces.BuildUsageReportPDF(output.Result, now)
		})
	}

	if *databaseURL != "" {
		persistRun(logger, *databaseURL, cfg.AccountID, now, output)
	}
}

func decodeInterval(logger zerolog.Logger, path string) (*usage.IntervalDataset, bool) {
	start := time.Now()
	raw, err := os.ReadFile(path)
	if err != nil {
		metrics.ObserveDecode("interval", metrics.ResultError, time.Since(start))
		logger.Error().Err(err).Str("path", path).Msg("read interval payload")
		return nil, false
	}
	decoder := ingest.NewDecoder(logger)
	ds, report, err := decoder.DecodeInterval(raw)
	observeReport("interval", report, start, err)
	if err != nil {
		if errors.Is(err, ingest.ErrMalformedDataset) {
			logger.Error().Err(err).Str("path", path).Msg("interval payload is not a usage dataset")
		} else {
			logger.Error().Err(err).Str("path", path).Msg("decode interval payload")
		}
		return nil, false
	}
	logger.Info().Int("accepted", report.Accepted).Int("skipped", report.Skipped()).
		Msg("interval payload decoded")
	return &ds, true
}

func decodeHourly(logger zerolog.Logger, path string) (*usage.SeriesPair, []usage.SavingsEntry, bool) {
	start := time.Now()
	raw, err := os.ReadFile(path)
	if err != nil {
		metrics.ObserveDecode("hourly", metrics.ResultError, time.Since(start))
		logger.Error().Err(err).Str("path", path).Msg("read hourly payload")
		return nil, nil, false
	}
	decoder := ingest.NewDecoder(logger)
	pair, savings, report, err := decoder.DecodeHourly(raw)
	observeReport("hourly", report, start, err)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("decode hourly payload")
		return nil, nil, false
	}
	logger.Info().Int("accepted", report.Accepted).Int("skipped", report.Skipped()).
		Msg("hourly payload decoded")
	return &pair, savings, true
}

func observeReport(dataset string, report *ingest.Report, start time.Time, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.ObserveDecode(dataset, result, time.Since(start))
	if report == nil {
		return
	}
	for _, skip := range report.Skips {
		metrics.AddRecordsSkipped(string(skip.Reason), 1)
	}
	metrics.AddRateMismatches(report.RateMismatches)
}

func exportReport(logger zerolog.Logger, format, path string, build func() ([]byte, error)) {
	start := time.Now()
	data, err := build()
	if err == nil {
		err = os.WriteFile(path, data, 0o644)
	}
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		logger.Error().Err(err).Str("format", format).Str("path", path).Msg("export report")
	} else {
		logger.Info().Str("format", format).Str("path", path).Msg("report written")
	}
	metrics.ObserveReportExport(format, result, time.Since(start))
}

func persistRun(logger zerolog.Logger, dsn, accountID string, ranAt time.Time, output *application.Output) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Error().Err(err).Msg("open database")
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	repo := analyticsrepo.NewRunRepository(db)
	err = repo.SaveRun(ctx, accountID, ranAt, output.Result, output.Plan)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
		logger.Error().Err(err).Msg("persist run")
	} else {
		logger.Info().Str("account_id", accountID).Msg("run persisted")
	}
	metrics.ObserveRunStore(result, time.Since(start))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func bootstrapLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
