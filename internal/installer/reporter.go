package installer

import (
	"github.com/snowflakelinux/snowflake-installer/packages/snowflake-install/internal/logging"
)

// Reporter receives what a run has to tell the host: coarse status with
// progress, the installer's output and warnings, and the outcome.
type Reporter interface {
	// Status announces a stage. progress runs from 0 to 1.
	Status(message string, progress float64)
	// Output passes on one line of nixos-install output.
	Output(line string)
	// Warning reports a problem that does not stop the run.
	Warning(message string)
	// Done is called once when the run ends; err is nil on success.
	Done(err error)
}

// LogReporter reports through the structured logger.
type LogReporter struct{}

func (LogReporter) Status(message string, progress float64) {
	logging.Info(message, "progress", progress)
}

func (LogReporter) Output(line string) {
	logging.Debug("nixos-install", "line", line)
}

func (LogReporter) Warning(message string) {
	logging.Warn(message)
}

func (LogReporter) Done(err error) {
	if err != nil {
		logging.Debug("installation failed", "error", err)
		return
	}
	logging.Info("installation finished")
}

// MultiReporter fans reports out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Status(message string, progress float64) {
	for _, r := range m {
		r.Status(message, progress)
	}
}

func (m MultiReporter) Output(line string) {
	for _, r := range m {
		r.Output(line)
	}
}

func (m MultiReporter) Warning(message string) {
	for _, r := range m {
		r.Warning(message)
	}
}

func (m MultiReporter) Done(err error) {
	for _, r := range m {
		r.Done(err)
	}
}

// RecordingReporter keeps every report, for tests and dry runs.
type RecordingReporter struct {
	Statuses []StatusReport
	Lines    []string
	Warnings []string
	Finished bool
	Err      error
}

// StatusReport is one recorded Status call.
type StatusReport struct {
	Message  string
	Progress float64
}

func (r *RecordingReporter) Status(message string, progress float64) {
	r.Statuses = append(r.Statuses, StatusReport{Message: message, Progress: progress})
}

func (r *RecordingReporter) Output(line string) {
	r.Lines = append(r.Lines, line)
}

func (r *RecordingReporter) Warning(message string) {
	r.Warnings = append(r.Warnings, message)
}

func (r *RecordingReporter) Done(err error) {
	r.Finished = true
	r.Err = err
}
