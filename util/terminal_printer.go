package util

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter keeps a block of labelled lines on the terminal and
// redraws it at a fixed frequency.
type TerminalPrinter struct {
	lines     []*ParallelOutput
	frequency time.Duration

	writer  *uilive.Writer
	writers []io.Writer

	doneCh    chan struct{}
	stoppedCh chan struct{}
	stopOnce  sync.Once
}

// NewTerminalPrinter draws to out, or to stdout when out is nil.
func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	writer := uilive.New()
	if out != nil {
		writer.Out = out
	}
	return &TerminalPrinter{
		lines:     make([]*ParallelOutput, 0),
		frequency: frequency,
		writer:    writer,
		writers:   make([]io.Writer, 0),
		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// NewOutput adds a line to the block. All lines must be added before Start.
func (p *TerminalPrinter) NewOutput(label string) *ParallelOutput {
	line := &ParallelOutput{label: label}
	if len(p.lines) == 0 {
		p.writers = append(p.writers, p.writer)
	} else {
		p.writers = append(p.writers, p.writer.Newline())
	}
	p.lines = append(p.lines, line)
	return line
}

func (p *TerminalPrinter) Start(ctx context.Context) {
	p.writer.Start()
	go func() {
		defer close(p.stoppedCh)
		ticker := time.NewTicker(p.frequency)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.draw()
			case <-p.doneCh:
				p.draw()
				p.writer.Stop()
				return
			case <-ctx.Done():
				p.writer.Stop()
				return
			}
		}
	}()
}

// Stop draws the final state of every line and waits for the printer to exit.
func (p *TerminalPrinter) Stop() {
	p.stopOnce.Do(func() { close(p.doneCh) })
	<-p.stoppedCh
}

func (p *TerminalPrinter) draw() {
	for i, line := range p.lines {
		fmt.Fprintln(p.writers[i], line.String())
	}
	p.writer.Flush()
}

// ParallelOutput is one line of a TerminalPrinter. Writes replace the line
// with the last non-empty line written.
type ParallelOutput struct {
	mtx   sync.Mutex
	label string
	text  string
}

var _ io.Writer = &ParallelOutput{}

func (o *ParallelOutput) Write(b []byte) (int, error) {
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	last := lines[len(lines)-1]
	if last != "" {
		o.Set(last)
	}
	return len(b), nil
}

func (o *ParallelOutput) Set(s string) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.text = s
}

func (o *ParallelOutput) Get() string {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.text
}

func (o *ParallelOutput) String() string {
	if o.label == "" {
		return o.Get()
	}
	return fmt.Sprintf("%s: %s", o.label, o.Get())
}
