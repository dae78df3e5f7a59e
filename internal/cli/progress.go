package cli

import (
	"fmt"
	"io"

	"qatrack/internal/store"
	"qatrack/internal/utils"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar creates a counting progress bar written to w
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// SyncProgress returns a store.RetryProgress that draws a bar on w once the
// first case has been retried
func SyncProgress(w io.Writer) store.RetryProgress {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = NewProgressBar(w, total, "Retrying unsynced cases")
		}
		if err := bar.Set(done); err != nil {
			utils.Debugf("cli: progress bar: %v", err)
		}
	}
}
