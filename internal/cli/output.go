package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Process exit statuses.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the sweep or circuit itself is bad
	ExitCommandError = 2 // flags, paths, catalog or metrics file
)

// ExitError carries the process exit status and the error code shown to the
// user. Reported is set once the formatter has printed the error, so main
// does not print it again.
type ExitError struct {
	Status   int
	Code     string
	Err      error
	Reported bool
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// WrapExitError attaches an exit status and error code to err.
func WrapExitError(status int, code string, err error) *ExitError {
	return &ExitError{Status: status, Code: code, Err: err}
}

// GetExitCode returns the exit status for err. Errors that did not come
// through a command (cobra flag parsing, for one) exit with ExitFailure.
func GetExitCode(err error) int {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Status
	}
	return ExitFailure
}

// IsReported returns true if err was already printed by a command.
func IsReported(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee) && ee.Reported
}

// Response is the JSON envelope every command writes with --format json.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError is the error half of Response.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes command results as text or as a JSON Response.
// Out receives results; Diag receives verbose diagnostics and defaults to Out.
type OutputFormatter struct {
	Format  string
	Out     io.Writer
	Diag    io.Writer
	Verbose bool
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

func (f *OutputFormatter) emit(resp Response) error {
	return json.NewEncoder(f.Out).Encode(resp)
}

// Success writes data as JSON, or text verbatim.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.isJSON() {
		return f.emit(Response{Status: "ok", Data: data})
	}
	_, err := io.WriteString(f.Out, text)
	return err
}

// Error writes an error report. Details are always part of the JSON
// envelope and only printed as text with --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.emit(Response{
			Status: "error",
			Error:  &ResponseError{Code: code, Message: message, Details: details},
		})
	}
	if _, err := fmt.Fprintf(f.Out, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		_, err := fmt.Fprintf(f.Out, "Details: %v\n", details)
		return err
	}
	return nil
}

// Debugf writes a diagnostic line when --verbose is set. Diagnostics never
// go to Out in JSON mode, where they would corrupt the envelope.
func (f *OutputFormatter) Debugf(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.Diag
	if w == nil {
		if f.isJSON() {
			return
		}
		w = f.Out
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Fail reports err under code and returns the ExitError the command exits
// with.
func (f *OutputFormatter) Fail(status int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return f.reported(status, code, err)
}

func (f *OutputFormatter) reported(status int, code string, err error) *ExitError {
	ee := WrapExitError(status, code, err)
	ee.Reported = true
	return ee
}
