package cluster

import "fmt"

// FileResult is one capture file's decode output. Independent files are
// decoded with independent assemblers and never merged; the caller
// concatenates the tables in whatever order it needs.
type FileResult struct {
	Filename string
	Table    EventTable
	Stats    DecodeStats
	Error    bool
}

// DecodeFile reads one capture file and folds it into events.
func DecodeFile(filename string, layout LayoutConfig, calibration *CalibrationTable) (FileResult, error) {
	words, trailing, err := ReadWordStream(filename)
	if err != nil {
		return FileResult{Filename: filename, Error: true}, err
	}
	table, stats := ClusterWords(words, layout, calibration)
	stats.TrailingBytes = trailing
	return FileResult{Filename: filename, Table: table, Stats: stats}, nil
}

// Worker decodes capture files from jobs until the channel closes. The
// calibration table is read-only and shared across workers. Every job
// produces exactly one result, so a panic on one file never starves the
// result channel or stops the remaining jobs.
func Worker(id int, jobs <-chan string, results chan<- FileResult, layout LayoutConfig, calibration *CalibrationTable) {
	for filename := range jobs {
		if configuration.Verbosity > 0 && logger != nil {
			message := fmt.Sprintf("Worker %d processing file %s", id, filename)
			logger.Info(message, "workers")
		}
		results <- decodeFileResult(id, filename, layout, calibration)
	}
}

func decodeFileResult(id int, filename string, layout LayoutConfig, calibration *CalibrationTable) (result FileResult) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				errMessage := fmt.Errorf("worker %d recovered from panic on file %s: %v", id, filename, r)
				logger.Error(errMessage.Error())
			}
			result = FileResult{Filename: filename, Error: true}
		}
	}()

	result, err := DecodeFile(filename, layout, calibration)
	if err != nil && logger != nil {
		logger.Error(err.Error())
	}
	return result
}
