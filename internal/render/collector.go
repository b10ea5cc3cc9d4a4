package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirkon/go-format"
)

// Collector collects generated source line by line keeping the indentation of blocks
type Collector struct {
	buf    bytes.Buffer
	indent int
}

// Line puts format expression
func (r *Collector) Line(line string, p ...interface{}) {
	r.Rawl(format.Formatp(line, p...))
}

// Comment puts format expression as a line comment
func (r *Collector) Comment(line string, p ...interface{}) {
	r.Rawl("// " + format.Formatp(line, p...))
}

// Rawl puts raw string
func (r *Collector) Rawl(line string) {
	if line != "" {
		r.buf.WriteString(strings.Repeat("\t", r.indent))
	}
	r.buf.WriteString(line)
	r.buf.WriteByte('\n')
}

// Newl puts new line
func (r *Collector) Newl() {
	r.buf.WriteByte('\n')
}

// Block puts format expression opening a block and returns a function closing it. Lines put
// in between are indented.
func (r *Collector) Block(open string, p ...interface{}) func() {
	r.Rawl(format.Formatp(open, p...) + " {")
	r.indent++
	return func() {
		r.indent--
		r.Rawl("}")
	}
}

// Bytes returns collected data
func (r *Collector) Bytes() []byte {
	return r.buf.Bytes()
}

// Listing returns collected data with numbered lines, this is what to show when collected source is broken
func (r *Collector) Listing() string {
	var buf bytes.Buffer
	lines := strings.Split(r.buf.String(), "\n")
	lineFmt := fmt.Sprintf("%%0%dd", len(strconv.Itoa(len(lines)+1)))
	for i, l := range lines {
		_, _ = fmt.Fprintf(&buf, lineFmt, i+1)
		buf.WriteByte(' ')
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.String()
}
