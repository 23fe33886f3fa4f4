package parser

import (
	"errors"
	"fmt"
	"net/netip"
	"time"
)

// LogItem is one fully parsed ELB access log line. It is only ever
// returned when every typed field parsed.
type LogItem struct {
	Time    time.Time
	ELBName string

	Client  netip.AddrPort
	Backend netip.AddrPort

	// Seconds
	RequestProcessingTime  float32
	BackendProcessingTime  float32
	ResponseProcessingTime float32

	ELBStatusCode     uint16
	BackendStatusCode uint16

	ReceivedBytes uint64
	SentBytes     uint64

	Method      string
	URL         string
	HTTPVersion string
}

// Parser turns one log line into a LogItem. A failed line is reported
// with a *ParseError.
type Parser interface {
	Parse(line []byte) (LogItem, error)
}

type ParserFunc func(line []byte) (LogItem, error)

func (f ParserFunc) Parse(line []byte) (LogItem, error) {
	return f(line)
}

type NewFunc func() Parser

type ParserMeta struct {
	Name        string
	Description string
	Hidden      bool
	F           NewFunc
}

var (
	ErrUnknownParser = errors.New("unknown parser")

	registry = make(map[string]ParserMeta)
)

func RegisterParser(meta ParserMeta) {
	registry[meta.Name] = meta
}

func GetParser(name string) (Parser, error) {
	meta, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParser, name)
	}
	return meta.F(), nil
}

func All() []ParserMeta {
	parsers := make([]ParserMeta, 0, len(registry))
	for _, meta := range registry {
		parsers = append(parsers, meta)
	}
	return parsers
}
