package parser

import (
	"strings"
)

func init() {
	newFunc := func() Parser { return ParserFunc(ParseELB) }
	RegisterParser(ParserMeta{
		Name:        "elb",
		Description: "Classic ELB access log, split on single spaces",
		F:           newFunc,
	})
	RegisterParser(ParserMeta{
		Name:        "classic-elb",
		Description: "An alias for `elb`",
		Hidden:      true,
		F:           newFunc,
	})
	RegisterParser(ParserMeta{
		Name:        "elb-quoted",
		Description: "Classic ELB access log, quoted request kept whole (URLs may contain spaces)",
		F:           func() Parser { return ParserFunc(ParseELBQuoted) },
	})
}

// ParseELB splits line on every ASCII space. The quoted request group
// therefore lands on positions 11 to 13 and is only read correctly when
// the URL has no spaces. Anything past position 13, such as the user
// agent, is ignored.
func ParseELB(line []byte) (LogItem, error) {
	tokens := strings.Split(string(line), " ")
	item, err := parseTypedFields(line, tokens)
	if err != nil {
		return LogItem{}, err
	}
	item.ELBName = tokenAt(tokens, posELBName)
	item.Method = trimQuote(tokenAt(tokens, posMethod))
	item.URL = tokenAt(tokens, posURL)
	item.HTTPVersion = trimQuote(tokenAt(tokens, posHTTPVersion))
	return item, nil
}

// ParseELBQuoted reads the quoted request as a single field, then takes
// its first word as the method and its last word as the HTTP version.
// Everything in between is the URL. A request group missing its closing
// quote runs to the end of the line and is still accepted.
func ParseELBQuoted(line []byte) (LogItem, error) {
	fields, _ := splitFields(line)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = string(f)
	}
	item, err := parseTypedFields(line, tokens)
	if err != nil {
		return LogItem{}, err
	}
	item.ELBName = tokenAt(tokens, posELBName)
	item.Method, item.URL, item.HTTPVersion = splitRequest(tokenAt(tokens, posMethod))
	return item, nil
}

// parseTypedFields tries every typed field and collects all failures
// instead of stopping at the first one.
func parseTypedFields(line []byte, tokens []string) (LogItem, error) {
	var item LogItem
	var errs []FieldError
	for _, f := range typedFields {
		if f.Position >= len(tokens) {
			errs = append(errs, FieldError{Field: f.Name, Err: ErrMissingField})
			continue
		}
		if err := f.parse(tokens[f.Position], &item); err != nil {
			errs = append(errs, FieldError{Field: f.Name, Err: err})
		}
	}
	if len(errs) > 0 {
		return LogItem{}, &ParseError{Line: string(line), Errors: errs}
	}
	return item, nil
}

func tokenAt(tokens []string, pos int) string {
	if pos >= len(tokens) {
		return ""
	}
	return tokens[pos]
}

func trimQuote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

func splitRequest(request string) (method, url, version string) {
	first := strings.IndexByte(request, ' ')
	if first == -1 {
		return request, "", ""
	}
	method = request[:first]
	rest := request[first+1:]
	last := strings.LastIndexByte(rest, ' ')
	if last == -1 {
		return method, rest, ""
	}
	return method, rest[:last], rest[last+1:]
}
