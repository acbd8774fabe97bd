package keys

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

const (
	spinnerCharacterSetIndexConstant = 14
	spinnerIntervalConstant          = 100 * time.Millisecond
	spinnerColorConstant             = "cyan"
)

// SpinnerProgress draws a spinner on its writer while the grind runs.
type SpinnerProgress struct {
	spinner *spinner.Spinner
}

// NewSpinnerProgress constructs a spinner that draws on writer. When writer is
// a file, nothing is drawn unless that file is a terminal. Any other writer
// is drawn on only while standard output is a terminal.
func NewSpinnerProgress(writer io.Writer) *SpinnerProgress {
	writerOption := spinner.WithWriter(writer)
	if file, isFile := writer.(*os.File); isFile {
		writerOption = spinner.WithWriterFile(file)
	}
	indicator := spinner.New(spinner.CharSets[spinnerCharacterSetIndexConstant], spinnerIntervalConstant, writerOption)
	_ = indicator.Color(spinnerColorConstant)
	return &SpinnerProgress{spinner: indicator}
}

// Start shows the spinner with message as its suffix.
func (progress *SpinnerProgress) Start(message string) {
	progress.spinner.Suffix = " " + message
	progress.spinner.Start()
}

// Stop removes the spinner.
func (progress *SpinnerProgress) Stop() {
	progress.spinner.Stop()
}
