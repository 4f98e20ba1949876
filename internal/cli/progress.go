package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/unikonkon/ceasflow/internal/sheets"
)

// ProgressBar renders export and import progress updates on a terminal.
type ProgressBar struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
	last   sheets.Progress
}

// NewProgressBar creates a 0..100 bar titled title.
func NewProgressBar(writer io.Writer, title string) *ProgressBar {
	if writer == nil {
		writer = os.Stderr
	}
	return &ProgressBar{
		writer: writer,
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetWriter(writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetDescription("[cyan][bold]"+title+"[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

// Update is a sheets.ProgressFunc.
func (p *ProgressBar) Update(ev sheets.Progress) {
	p.last = ev

	switch ev.Stage {
	case sheets.StageError:
		_ = p.bar.Exit()
		p.println(FormatError(ev.Message))
		return
	case sheets.StageComplete:
		if err := p.bar.Set(100); err != nil {
			slog.Debug("failed to update progress bar", "error", err)
		}
		_ = p.bar.Finish()
		p.println(FormatSuccess(ev.Message))
		return
	}

	p.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", ev.Message))
	if err := p.bar.Set(ev.Percent); err != nil {
		slog.Debug("failed to update progress bar", "error", err)
	}
}

// Last returns the most recent update.
func (p *ProgressBar) Last() sheets.Progress {
	return p.last
}

func (p *ProgressBar) println(s string) {
	if _, err := fmt.Fprintln(p.writer, "\n"+s); err != nil {
		slog.Warn("failed to write progress message", "error", err)
	}
}
