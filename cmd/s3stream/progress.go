package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// progressPrinter reports upload progress on w at most once per interval.
type progressPrinter struct {
	w        io.Writer
	interval time.Duration
	last     time.Time
	started  time.Time
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	now := time.Now()
	return &progressPrinter{w: w, interval: time.Second, started: now, last: now}
}

func (p *progressPrinter) Update(transferred, total int64) {
	if time.Since(p.last) < p.interval {
		return
	}
	p.last = time.Now()

	if total > 0 {
		fmt.Fprintf(p.w, "uploaded %s of %s (%.0f%%)\n",
			humanize.IBytes(uint64(transferred)),
			humanize.IBytes(uint64(total)),
			float64(transferred)*100/float64(total))
		return
	}
	fmt.Fprintf(p.w, "uploaded %s\n", humanize.IBytes(uint64(transferred)))
}

func (p *progressPrinter) Complete() {
	fmt.Fprintf(p.w, "done in %s\n", time.Since(p.started).Round(time.Millisecond))
}

func (p *progressPrinter) Error(err error) {
	fmt.Fprintf(p.w, "upload failed after %s: %v\n", time.Since(p.started).Round(time.Millisecond), err)
}
