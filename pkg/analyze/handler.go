package analyze

import (
	"github.com/taoky/elblog/pkg/parser"
)

// Handler receives parse outcomes in file order.
type Handler interface {
	HandleRecord(item parser.LogItem)
	HandleFailure(failure *parser.ParseError)
}

type nopHandler struct{}

func (nopHandler) HandleRecord(parser.LogItem)      {}
func (nopHandler) HandleFailure(*parser.ParseError) {}

// Collector keeps every record and failure in memory.
type Collector struct {
	Records  []parser.LogItem
	Failures []*parser.ParseError
}

func (c *Collector) HandleRecord(item parser.LogItem) {
	c.Records = append(c.Records, item)
}

func (c *Collector) HandleFailure(failure *parser.ParseError) {
	c.Failures = append(c.Failures, failure)
}
