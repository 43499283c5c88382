package filter

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// Pipeline is the sequence of containers a file was wrapped in, innermost
// first.
type Pipeline struct {
	filters []Filter
}

// ForName builds the pipeline implied by the trailing extensions of name.
// Extensions are consumed from the right while they are registered; the
// outermost one must be.
func ForName(name string) (*Pipeline, error) {
	base := path.Base(name)
	var rev []Filter
	for {
		ext := strings.ToLower(path.Ext(base))
		if ext == "" {
			break
		}
		constructor, ok := Registry[ext]
		if !ok {
			break
		}
		rev = append(rev, constructor())
		base = base[:len(base)-len(ext)]
		if ext == ExtDat {
			break
		}
	}
	if len(rev) == 0 {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedContainer, name, strings.Join(Extensions(), ", "))
	}

	p := &Pipeline{filters: make([]Filter, len(rev))}
	for i, f := range rev {
		p.filters[len(rev)-1-i] = f
	}
	return p, nil
}

// Decode applies the filters in reverse order (outermost first).
func (p *Pipeline) Decode(input []byte) ([]byte, error) {
	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s decode: %w", p.filters[i].Ext(), err)
		}
	}
	return data, nil
}

// NewWriter stacks the filters' encoders over w so that bytes written to
// the result end up in w wrapped in every container of the pipeline.
func (p *Pipeline) NewWriter(w io.Writer) (io.WriteCloser, error) {
	stack := make([]io.WriteCloser, 0, len(p.filters))
	var cur io.Writer = w
	for i := len(p.filters) - 1; i >= 0; i-- {
		fw, err := p.filters[i].NewWriter(cur)
		if err != nil {
			return nil, fmt.Errorf("filter %s writer: %w", p.filters[i].Ext(), err)
		}
		stack = append(stack, fw)
		cur = fw
	}
	return &chainWriter{stack: stack}, nil
}

// Exts returns the extensions of the pipeline, innermost first.
func (p *Pipeline) Exts() []string {
	exts := make([]string, len(p.filters))
	for i, f := range p.filters {
		exts[i] = f.Ext()
	}
	return exts
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}

// chainWriter writes into the innermost encoder and closes encoders from
// the inside out.
type chainWriter struct {
	stack []io.WriteCloser
}

func (c *chainWriter) Write(b []byte) (int, error) {
	return c.stack[len(c.stack)-1].Write(b)
}

func (c *chainWriter) Close() error {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if err := c.stack[i].Close(); err != nil {
			return err
		}
	}
	return nil
}
