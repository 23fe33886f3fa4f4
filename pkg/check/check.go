// Package check prints the malformed lines of ELB logs together with the
// fields that failed on each.
package check

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/taoky/elblog/pkg/fileiter"
	"github.com/taoky/elblog/pkg/parser"
	"github.com/taoky/elblog/pkg/util"
	"github.com/taoky/elblog/pkg/walk"
)

var (
	ErrUnknownField = errors.New("unknown field")

	pathColor   = color.New(color.FgMagenta).SprintFunc()
	errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()("ERROR:")
	fieldColor = color.New(color.FgRed, color.Bold).SprintFunc()
)

type Checker struct {
	fields  []parser.Field
	p       parser.Parser
	out     io.Writer
	errOut  io.Writer
	bufSize int
	include []string
}

type CheckerConfig struct {
	BufferSize util.SizeFlag
	Fields     []string
	Include    []string
	Parser     string
}

func DefaultConfig() CheckerConfig {
	return CheckerConfig{
		BufferSize: fileiter.DefaultBufferSize,
		Parser:     "elb",
	}
}

func (c *CheckerConfig) InstallFlags(flags *pflag.FlagSet) {
	flags.StringArrayVarP(&c.Fields, "field", "f", c.Fields, "Only show lines where this field failed, e.g. 'sent bytes' (can be specified multiple times)")
	flags.StringArrayVarP(&c.Include, "include", "i", c.Include, "Only read files matching this pattern when given a directory (can be specified multiple times)")
	flags.VarP(&c.BufferSize, "max-line", "m", "Longest line accepted before the rest of a file is skipped")
	flags.StringVarP(&c.Parser, "parser", "p", c.Parser, "Log parser (see \"elblog list parsers\")")
}

// Report counts what a check saw. Shown is the number of malformed
// lines that passed the field filter and were printed. Errors counts the
// files below a directory that could not be opened or read.
type Report struct {
	Lines    uint64
	Failures uint64
	Shown    uint64
	Errors   uint64
}

func (r *Report) Add(o Report) {
	r.Lines += o.Lines
	r.Failures += o.Failures
	r.Shown += o.Shown
	r.Errors += o.Errors
}

// New writes malformed lines to w and file errors to errOut.
func New(c CheckerConfig, w, errOut io.Writer) (*Checker, error) {
	p, err := parser.GetParser(c.Parser)
	if err != nil {
		return nil, err
	}
	known := make([]parser.Field, 0, len(parser.Fields()))
	for _, f := range parser.Fields() {
		known = append(known, f.Name)
	}
	fields := make([]parser.Field, 0, len(c.Fields))
	for _, name := range c.Fields {
		f := parser.Field(name)
		if !slices.Contains(known, f) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		fields = append(fields, f)
	}
	return &Checker{
		fields:  fields,
		p:       p,
		out:     w,
		errOut:  errOut,
		bufSize: int(c.BufferSize),
		include: c.Include,
	}, nil
}

// CheckPath checks a single file, or every readable file below a
// directory. Below a directory a file that fails to open or read is
// reported and counted, and the walk goes on.
func (c *Checker) CheckPath(path string) (Report, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Report{}, err
	}
	if !fi.IsDir() {
		return c.CheckFile(path)
	}
	var report Report
	err = walk.Walk(path, func(e walk.Entry) error {
		if !e.Readable() {
			return nil
		}
		r, err := c.CheckFile(e.Path)
		report.Add(r)
		if err != nil {
			report.Errors++
			fmt.Fprintln(c.errOut, errorPrefix, err)
		}
		return nil
	}, walk.WithInclude(c.include...))
	return report, err
}

func (c *Checker) CheckFile(filename string) (Report, error) {
	f, err := util.OpenFile(filename)
	if err != nil {
		return Report{}, err
	}
	report, err := c.RunLoop(filename, fileiter.NewWithScanner(f, c.bufSize))
	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("read %s: %w", filename, cerr)
	}
	return report, err
}

func (c *Checker) RunLoop(name string, iter fileiter.Iterator) (Report, error) {
	var report Report
	for {
		line, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return report, nil
		}
		if err != nil {
			return report, fmt.Errorf("read %s: %w", name, err)
		}
		report.Lines++
		_, err = c.p.Parse(line)
		if err == nil {
			continue
		}
		report.Failures++
		var perr *parser.ParseError
		if !errors.As(err, &perr) {
			perr = &parser.ParseError{Line: string(line)}
		}
		if c.match(perr) {
			report.Shown++
			c.print(name, report.Lines, perr, err)
		}
	}
}

func (c *Checker) match(perr *parser.ParseError) bool {
	if len(c.fields) == 0 {
		return true
	}
	for _, f := range c.fields {
		if perr.Has(f) {
			return true
		}
	}
	return false
}

func (c *Checker) print(name string, lineNo uint64, perr *parser.ParseError, err error) {
	fmt.Fprintf(c.out, "%s:%d: %s\n", pathColor(name), lineNo, perr.Line)
	if len(perr.Errors) == 0 {
		fmt.Fprintf(c.out, "\t%v\n", err)
		return
	}
	for _, fe := range perr.Errors {
		fmt.Fprintf(c.out, "\t%s: %v\n", fieldColor(string(fe.Field)), fe.Err)
	}
}
