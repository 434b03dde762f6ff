package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"avmux/internal/batch"
	"avmux/internal/pairing"
)

// progressObserver draws one bar across the batch, advancing per pair.
type progressObserver struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func newProgressObserver(out io.Writer) *progressObserver {
	return &progressObserver{out: out}
}

func (p *progressObserver) PairStarted(pair pairing.Pair, total int) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionEnableColorCodes(true),
		)
	}
	p.bar.Describe(fmt.Sprintf("[cyan]%s[reset] + %s", filepath.Base(pair.Video), filepath.Base(pair.Audio)))
}

func (p *progressObserver) PairFinished(result batch.PairResult, total int) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// close ends the bar line so later output starts on a fresh line.
func (p *progressObserver) close() {
	if p.bar == nil {
		return
	}
	fmt.Fprintln(p.out)
}
