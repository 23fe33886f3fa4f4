package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindEndingDoubleQuote(t *testing.T) {
	type testCase struct {
		input    []byte
		expected int
	}
	testCases := []testCase{
		{[]byte(`abc"`), 3},
		{[]byte(`ab\"c"`), 5},
		{[]byte(`ab\\c"`), 5},
		{[]byte(`ab`), -1},
	}
	for _, c := range testCases {
		assert.Equal(t, c.expected, findEndingDoubleQuote(c.input))
	}
}

func TestSplitFields(t *testing.T) {
	type testCase struct {
		line     []byte
		expected [][]byte
		err      error
	}
	testCases := []testCase{
		{
			[]byte(`2015-08-15T23:43:05.302180Z elb-name 200 "GET http://a/b c HTTP/1.1" "curl/7.38.0" -`),
			[][]byte{
				[]byte(`2015-08-15T23:43:05.302180Z`),
				[]byte(`elb-name`),
				[]byte(`200`),
				[]byte(`GET http://a/b c HTTP/1.1`),
				[]byte(`curl/7.38.0`),
				[]byte(`-`),
			},
			nil,
		},
		{
			// closing quote at the very end of the line
			[]byte(`200 "GET / HTTP/1.1"`),
			[][]byte{[]byte(`200`), []byte(`GET / HTTP/1.1`)},
			nil,
		},
		{
			[]byte(`200 "GET / HTTP/1.1`),
			[][]byte{[]byte(`200`), []byte(`GET / HTTP/1.1`)},
			errUnbalancedQuotes,
		},
		{
			[]byte(`a  b`),
			[][]byte{[]byte(`a`), []byte(``), []byte(`b`)},
			nil,
		},
	}
	for _, c := range testCases {
		res, err := splitFields(c.line)
		assert.Equal(t, c.err, err)
		assert.Equal(t, c.expected, res)
	}

	res, err := splitFields(nil)
	assert.NoError(t, err)
	assert.Empty(t, res)
}
