package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	sqlx "github.com/jmoiron/sqlx"
	cluster "github.com/mg-exp/cluster_go/pkg"
)

var dbConn *sqlx.DB
var configuration cluster.Configuration

var (
	logger         Logger
	VerbosityLevel int
	DiscardErrors  bool
)

func init() {
	opts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	handlerStdOut := NewHandler(os.Stdout, opts)
	handlerStdErr := slog.NewJSONHandler(os.Stderr, opts)
	logger = Logger{
		InfoLog:  slog.New(handlerStdOut),
		ErrorLog: slog.New(handlerStdErr),
	}
}

func main() {
	configFilename := flag.String("config", "", "Configuration file path")
	flag.Parse()

	var err error
	configuration, err = LoadConfiguration(*configFilename)
	if err != nil {
		message := fmt.Errorf("error reading configuration file: %w", err)
		logger.Error(message.Error())
		return
	}
	cluster.SetConfiguration(configuration)
	cluster.SetLogger(logger)

	VerbosityLevel = configuration.Verbosity
	DiscardErrors = configuration.Discard
	if VerbosityLevel > 0 {
		message := fmt.Sprintf("Reading configuration file: %s", *configFilename)
		logger.Info(message, "main")
		printConfiguration(configuration, logger)
	}

	calibration, err := loadCalibration()
	if err != nil {
		message := fmt.Errorf("error loading calibration: %w", err)
		logger.Error(message.Error())
		return
	}

	layout := cluster.GetLayout(configuration.Layout)

	start := time.Now()
	results := decodeFiles(configuration.FilesIn, layout, calibration)

	events, stats := collectResults(results)
	events = applyEventWindow(events, configuration.Skip, configuration.MaxEvents)

	if configuration.WriteData {
		writer, err := cluster.NewWriter(configuration.FileOut, configuration.Layout)
		if err != nil {
			logger.Error(err.Error())
			return
		}
		table := cluster.EventTable{Layout: layout, Events: events}
		if err := writer.WriteEvents(table, configuration.RunNumber); err != nil {
			logger.Error(err.Error())
		}
		writer.Close()
	}

	duration := time.Since(start)
	message := fmt.Sprintf("Clustered %d events in %d ms", len(events), duration.Milliseconds())
	logger.Info(message, "main")
	printStats(stats)
}

func loadCalibration() (*cluster.CalibrationTable, error) {
	if configuration.NoDB {
		calibFile, err := cluster.LoadCalibrationFile(configuration.CalibFile)
		if err != nil {
			return nil, err
		}
		return cluster.BuildCalibrationTable(calibFile, calibFile)
	}

	var err error
	dbConn, err = cluster.ConnectToDatabase(configuration.User, configuration.Passwd,
		configuration.Host, configuration.DBName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	dbCalib := cluster.NewDBCalibration(dbConn, configuration.RunNumber)
	return cluster.BuildCalibrationTable(dbCalib, dbCalib)
}

func decodeFiles(files []string, layout cluster.LayoutConfig, calibration *cluster.CalibrationTable) []cluster.FileResult {
	results := make([]cluster.FileResult, 0, len(files))

	if configuration.Parallel && configuration.NumWorkers > 1 {
		jobs := make(chan string, len(files))
		out := make(chan cluster.FileResult, len(files))
		for w := 1; w <= configuration.NumWorkers; w++ {
			go cluster.Worker(w, jobs, out, layout, calibration)
		}
		for _, filename := range files {
			jobs <- filename
		}
		close(jobs)
		byFile := make(map[string]cluster.FileResult, len(files))
		for range files {
			result := <-out
			byFile[result.Filename] = result
		}
		// Workers finish out of order; results are re-ordered to the
		// configured file order before concatenation.
		for _, filename := range files {
			if result, ok := byFile[filename]; ok {
				results = append(results, result)
			}
		}
		return results
	}

	for _, filename := range files {
		result, err := cluster.DecodeFile(filename, layout, calibration)
		if err != nil {
			logger.Error(err.Error())
		}
		results = append(results, result)
	}
	return results
}

func collectResults(results []cluster.FileResult) ([]cluster.Event, cluster.DecodeStats) {
	events := make([]cluster.Event, 0)
	var stats cluster.DecodeStats
	for _, result := range results {
		if result.Error {
			if DiscardErrors {
				message := fmt.Sprintf("discarding file %s", result.Filename)
				logger.Error(message)
				continue
			}
		}
		events = append(events, result.Table.Events...)
		stats.Add(result.Stats)
	}
	return events, stats
}

func applyEventWindow(events []cluster.Event, skip int, maxEvents int) []cluster.Event {
	if skip >= len(events) {
		return nil
	}
	events = events[skip:]
	if maxEvents < len(events) {
		events = events[:maxEvents]
	}
	return events
}

func printStats(stats cluster.DecodeStats) {
	message := fmt.Sprintf("Headers: %d, Data words: %d, EoEs: %d, Other: %d",
		stats.Headers, stats.DataWords, stats.EndOfEvents, stats.OtherWords)
	logger.Info(message, "stats")
	if stats.SkippedWords > 0 {
		message = fmt.Sprintf("Skipped %d data words with bad channels %v",
			stats.SkippedWords, stats.BadChannels())
		logger.Info(message, "stats")
	}
	if stats.DroppedOpenEvents > 0 {
		message = fmt.Sprintf("Dropped %d unterminated events", stats.DroppedOpenEvents)
		logger.Info(message, "stats")
	}
	if stats.OrphanWords > 0 {
		message = fmt.Sprintf("Ignored %d words outside any event", stats.OrphanWords)
		logger.Info(message, "stats")
	}
	if stats.TrailingBytes > 0 {
		message = fmt.Sprintf("Dropped %d trailing bytes", stats.TrailingBytes)
		logger.Info(message, "stats")
	}
}
