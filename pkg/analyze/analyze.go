package analyze

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"
	"github.com/taoky/elblog/pkg/fileiter"
	"github.com/taoky/elblog/pkg/parser"
	"github.com/taoky/elblog/pkg/util"
	"github.com/taoky/elblog/pkg/walk"
)

var ErrOpen = errors.New("cannot open")

type Analyzer struct {
	Config AnalyzerConfig

	handler   Handler
	logParser parser.Parser

	// logger carries results and debug output, errLogger file and line
	// errors.
	logger    *log.Logger
	errLogger *log.Logger
	progress  io.Writer
}

type AnalyzerConfig struct {
	BufferSize util.SizeFlag
	Debug      bool
	Include    []string
	LogOutput  string
	Parser     string
	Progress   bool
	ShowErrors bool

	// Used with tail only
	Whole bool
}

func (c *AnalyzerConfig) InstallFlags(flags *pflag.FlagSet) {
	flags.VarP(&c.BufferSize, "max-line", "m", "Longest line accepted before the rest of a file is skipped")
	flags.BoolVarP(&c.Debug, "debug", "d", c.Debug, "Print progress messages for every file")
	flags.StringArrayVarP(&c.Include, "include", "i", c.Include, "Only read files matching this pattern relative to the root, e.g. '**/*.log' (can be specified multiple times)")
	flags.StringVarP(&c.LogOutput, "outlog", "o", c.LogOutput, "Change log output file")
	flags.StringVarP(&c.Parser, "parser", "p", c.Parser, "Log parser (see \"elblog list parsers\")")
	flags.BoolVar(&c.Progress, "progress", c.Progress, "Show a progress bar on stderr (ignored with --debug)")
	flags.BoolVarP(&c.ShowErrors, "show-errors", "e", c.ShowErrors, "Report every malformed line on stderr")
}

func DefaultConfig() AnalyzerConfig {
	return AnalyzerConfig{
		BufferSize: fileiter.DefaultBufferSize,
		Parser:     "elb",
	}
}

type Option func(*Analyzer)

// WithOutput replaces stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *Analyzer) {
		a.logger.SetOutput(stdout)
		a.errLogger.SetOutput(stderr)
		a.progress = stderr
	}
}

// WithHandler receives every record and failure as it is parsed.
func WithHandler(h Handler) Option {
	return func(a *Analyzer) {
		a.handler = h
	}
}

func NewAnalyzer(c AnalyzerConfig, opts ...Option) (*Analyzer, error) {
	logParser, err := parser.GetParser(c.Parser)
	if err != nil {
		return nil, fmt.Errorf("invalid parser: %w", err)
	}

	a := &Analyzer{
		Config:    c,
		handler:   nopHandler{},
		logParser: logParser,
		logger:    log.New(os.Stdout, "", 0),
		errLogger: log.New(os.Stderr, "", 0),
		progress:  os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.OpenLogFile(); err != nil {
		return nil, fmt.Errorf("open log file error: %w", err)
	}
	return a, nil
}

// Run parses every readable file below root. Files that cannot be opened
// or read are reported and skipped; only a failure to enumerate root is
// returned, together with the counts gathered up to that point.
func (a *Analyzer) Run(root string) (Summary, error) {
	var summary Summary
	var bar *progressbar.ProgressBar
	if a.Config.Progress && !a.Config.Debug {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(a.progress),
			progressbar.OptionSetDescription("parsing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
	}

	err := walk.Walk(root, func(entry walk.Entry) error {
		a.handleEntry(entry, &summary)
		if bar != nil {
			bar.Add(1)
		}
		return nil
	}, walk.WithInclude(a.Config.Include...))
	if err != nil {
		return summary, fmt.Errorf("enumerate %s: %w", root, err)
	}
	return summary, nil
}

func (a *Analyzer) handleEntry(entry walk.Entry, summary *Summary) {
	if !entry.Readable() {
		a.debugf("Skipping %s (%s).", entry.Path, entry.Type.Type())
		summary.Skipped++
		return
	}

	a.debugf("Processing file %s.", entry.Path)
	stats, err := a.AnalyzeFile(entry.Path)
	summary.Add(stats)
	if err != nil {
		a.errorf("%v", err)
		if errors.Is(err, ErrOpen) {
			summary.OpenErrors++
			return
		}
		summary.ReadErrors++
	}
	summary.Files++
	a.debugf("Found %d records and %d failures in file %s.", stats.Records, stats.Failures, entry.Path)
}

// AnalyzeFile parses filename line by line. Errors opening the file wrap
// ErrOpen; a read error ends the file early and is returned along with
// the counts so far. A failing close, such as xz exiting non-zero, is a
// read error too.
func (a *Analyzer) AnalyzeFile(filename string) (FileStats, error) {
	f, err := util.OpenFile(filename)
	if err != nil {
		return FileStats{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	stats, err := a.RunLoop(fileiter.NewWithScanner(f, int(a.Config.BufferSize)))
	err = errors.Join(err, f.Close())
	if err != nil {
		return stats, fmt.Errorf("read %s (after line %d): %w", filename, stats.Lines, err)
	}
	return stats, nil
}

func (a *Analyzer) RunLoop(iter fileiter.Iterator) (FileStats, error) {
	var stats FileStats
	for {
		line, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}
		stats.Lines++
		stats.Bytes += uint64(len(line))
		a.handleLine(line, &stats)
	}
}

func (a *Analyzer) handleLine(line []byte, stats *FileStats) {
	logItem, err := a.logParser.Parse(line)
	if err == nil {
		stats.Records++
		a.handler.HandleRecord(logItem)
		return
	}

	stats.Failures++
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		a.errorf("parse error: %v\ngot line: %q", err, line)
		return
	}
	if a.Config.ShowErrors {
		a.errorf("line %d: %v\ngot line: %q", stats.Lines, perr, perr.Line)
	}
	a.handler.HandleFailure(perr)
}
