package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

// Printer is the output sink for print terms. Each call appends one line.
type Printer interface {
	PrintLine(line string) error
}

// PrintFunc adapts a function to Printer.
type PrintFunc func(line string) error

func (f PrintFunc) PrintLine(line string) error { return f(line) }

// WriterPrinter writes each line straight through to an io.Writer.
type WriterPrinter struct {
	w io.Writer
}

func NewWriterPrinter(w io.Writer) *WriterPrinter {
	return &WriterPrinter{w: w}
}

func (p *WriterPrinter) PrintLine(line string) error {
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// BufferedPrinter batches lines and must be flushed by the owner, also after
// a failed evaluation so partial output stays visible.
type BufferedPrinter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func NewBufferedPrinter(w io.Writer, size int) *BufferedPrinter {
	return &BufferedPrinter{w: bufio.NewWriterSize(w, size)}
}

func (p *BufferedPrinter) PrintLine(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.w.WriteString(line); err != nil {
		return err
	}
	return p.w.WriteByte('\n')
}

func (p *BufferedPrinter) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w.Flush()
}
