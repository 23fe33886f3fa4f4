package parser

import (
	"bytes"
	"errors"
)

var errUnbalancedQuotes = errors.New("unexpected format: unbalanced quotes")

// The balancer escapes `"` inside quoted groups as `\"`
func findEndingDoubleQuote(data []byte) int {
	inEscape := false
	for i := 0; i < len(data); i++ {
		if inEscape {
			inEscape = false
		} else {
			if data[i] == '\\' {
				inEscape = true
			} else if data[i] == '"' {
				return i
			}
		}
	}
	return -1
}

// splitFields splits line on spaces, keeping a double-quoted group as one
// field without its quotes. An unterminated group becomes the last field
// and errUnbalancedQuotes is returned along with everything split so far.
func splitFields(line []byte) ([][]byte, error) {
	res := make([][]byte, 0, 16)
	for baseIdx := 0; baseIdx < len(line); {
		if line[baseIdx] == '"' {
			quoteIdx := findEndingDoubleQuote(line[baseIdx+1:])
			if quoteIdx == -1 {
				res = append(res, line[baseIdx+1:])
				return res, errUnbalancedQuotes
			}
			res = append(res, line[baseIdx+1:baseIdx+quoteIdx+1])
			baseIdx += quoteIdx + 2
			if baseIdx < len(line) && line[baseIdx] == ' ' {
				baseIdx++
			}
		} else {
			spaceIdx := bytes.IndexByte(line[baseIdx:], ' ')
			if spaceIdx == -1 {
				res = append(res, line[baseIdx:])
				break
			}
			res = append(res, line[baseIdx:baseIdx+spaceIdx])
			baseIdx += spaceIdx + 1
		}
	}
	return res, nil
}
