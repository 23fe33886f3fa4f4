package parser

import (
	"bytes"
	"errors"
	"net/netip"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLine = `2015-08-15T23:43:05.302180Z elb-name 172.16.1.6:54814 172.16.1.5:9000 0.000039 0.145507 0.00003 200 200 0 7582 "GET http://some.domain.com:80/path0/path1?param0=p0&param1=p1 HTTP/1.1"`

// withField returns sampleLine with the space separated token at pos
// replaced.
func withField(pos int, value string) []byte {
	tokens := strings.Split(sampleLine, " ")
	tokens[pos] = value
	return []byte(strings.Join(tokens, " "))
}

func testELBParser(t *testing.T, p Parser) {
	as := assert.New(t)
	log, err := p.Parse([]byte(sampleLine))
	require.NoError(t, err)

	as.Equal("2015-08-15T23:43:05.302180Z", FormatTimestamp(log.Time))
	as.WithinDuration(time.Date(2015, 8, 15, 23, 43, 5, 302180000, time.UTC), log.Time, 0)
	as.Equal(time.UTC, log.Time.Location())
	as.Equal("elb-name", log.ELBName)
	as.Equal(netip.MustParseAddrPort("172.16.1.6:54814"), log.Client)
	as.Equal(netip.MustParseAddrPort("172.16.1.5:9000"), log.Backend)
	as.Equal(float32(0.000039), log.RequestProcessingTime)
	as.Equal(float32(0.145507), log.BackendProcessingTime)
	as.Equal(float32(0.00003), log.ResponseProcessingTime)
	as.EqualValues(200, log.ELBStatusCode)
	as.EqualValues(200, log.BackendStatusCode)
	as.EqualValues(0, log.ReceivedBytes)
	as.EqualValues(7582, log.SentBytes)
	as.Equal("GET", log.Method)
	as.Equal("http://some.domain.com:80/path0/path1?param0=p0&param1=p1", log.URL)
	as.Equal("HTTP/1.1", log.HTTPVersion)
}

func TestELBParser(t *testing.T) {
	testELBParser(t, ParserFunc(ParseELB))
	testELBParser(t, ParserFunc(ParseELBQuoted))
}

func TestELBParserTrailingFields(t *testing.T) {
	line := sampleLine + ` "curl/7.38.0" - -`
	for _, p := range []ParserFunc{ParseELB, ParseELBQuoted} {
		log, err := p.Parse([]byte(line))
		if assert.NoError(t, err) {
			assert.Equal(t, "GET", log.Method)
			assert.Equal(t, "HTTP/1.1", log.HTTPVersion)
		}
	}
}

func TestELBParserMalformedStatusCode(t *testing.T) {
	as := assert.New(t)
	line := strings.Replace(sampleLine, "200 200", "two-hundred 200", 1)
	log, err := ParseELB([]byte(line))
	as.Equal(LogItem{}, log)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	as.Equal(line, perr.Line)
	if as.Len(perr.Errors, 1) {
		as.Equal(FieldELBStatusCode, perr.Errors[0].Field)
		as.ErrorIs(perr.Errors[0].Err, strconv.ErrSyntax)
	}
	as.True(perr.Has(FieldELBStatusCode))
	as.False(perr.Has(FieldBackendStatusCode))
	as.ErrorIs(err, strconv.ErrSyntax)
}

func TestELBParserCollectsAllErrors(t *testing.T) {
	type testCase struct {
		line     []byte
		expected []Field
	}
	testCases := []testCase{
		{withField(posTimestamp, "yesterday"), []Field{FieldTimestamp}},
		{withField(posClient, "172.16.1.6"), []Field{FieldClientAddress}},
		{withField(posBackend, "172.16.1.256:80"), []Field{FieldBackendAddress}},
		{withField(posSentBytes, "7,582"), []Field{FieldSentBytes}},
		{
			[]byte(`2015-08-15 elb-name 172.16.1.6:54814 [::1]:9000 fast 0.145507 0.00003 200 -1 0 7582 "GET / HTTP/1.1"`),
			[]Field{FieldTimestamp, FieldBackendAddress, FieldRequestProcessingTime, FieldBackendStatusCode},
		},
		{
			[]byte(`x elb x x x x x x x x x "GET / HTTP/1.1"`),
			[]Field{
				FieldTimestamp, FieldClientAddress, FieldBackendAddress,
				FieldRequestProcessingTime, FieldBackendProcessingTime, FieldResponseProcessingTime,
				FieldELBStatusCode, FieldBackendStatusCode, FieldReceivedBytes, FieldSentBytes,
			},
		},
	}
	for _, c := range testCases {
		for _, p := range []ParserFunc{ParseELB, ParseELBQuoted} {
			_, err := p.Parse(c.line)
			var perr *ParseError
			if assert.ErrorAs(t, err, &perr, "line %q", c.line) {
				assert.Equal(t, c.expected, perr.Fields())
			}
		}
	}
}

func TestELBParserShortLines(t *testing.T) {
	as := assert.New(t)

	_, err := ParseELB([]byte(""))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	as.Equal("", perr.Line)
	as.Len(perr.Errors, len(typedFields))
	as.Equal(FieldTimestamp, perr.Errors[0].Field)
	for _, fe := range perr.Errors[1:] {
		as.ErrorIs(fe, ErrMissingField)
	}

	tokens := strings.Split(sampleLine, " ")
	_, err = ParseELB([]byte(strings.Join(tokens[:5], " ")))
	require.ErrorAs(t, err, &perr)
	as.Equal([]Field{
		FieldBackendProcessingTime, FieldResponseProcessingTime,
		FieldELBStatusCode, FieldBackendStatusCode, FieldReceivedBytes, FieldSentBytes,
	}, perr.Fields())

	// All typed fields present, the request group missing
	log, err := ParseELB([]byte(strings.Join(tokens[:11], " ")))
	if as.NoError(err) {
		as.EqualValues(7582, log.SentBytes)
		as.Empty(log.Method)
		as.Empty(log.URL)
		as.Empty(log.HTTPVersion)
	}
}

func TestELBParserBoundaries(t *testing.T) {
	type testCase struct {
		pos   int
		value string
		ok    bool
	}
	testCases := []testCase{
		{posSentBytes, "18446744073709551615", true},
		{posSentBytes, "18446744073709551616", false},
		{posReceivedBytes, "+1", false},
		{posReceivedBytes, "-1", false},
		{posReceivedBytes, "12a", false},
		{posReceivedBytes, "1_000", false},
		{posELBStatusCode, "999", true},
		{posELBStatusCode, "65535", true},
		{posELBStatusCode, "65536", false},
		{posBackendStatusCode, "-", false},
		{posRequestProcessingTime, "0", true},
		{posRequestProcessingTime, "-1", true},
		{posRequestProcessingTime, "1e39", false},
		{posRequestProcessingTime, "NaN", false},
		{posRequestProcessingTime, "inf", false},
		{posRequestProcessingTime, "0x1p-2", false},
		{posClient, "172.16.1.6:65535", true},
		{posClient, "172.16.1.6:65536", false},
		{posClient, "172.16.01.6:80", false},
		{posClient, "[::ffff:172.16.1.6]:80", false},
		{posTimestamp, "2015-08-15T23:43:05.302180+00:00", false},
		{posTimestamp, "2015-08-15T23:43:05.302Z", false},
		{posTimestamp, "2015-08-15T23:43:05Z", false},
		{posTimestamp, "2015-08-15T23:43:05,302180Z", false},
	}
	for _, c := range testCases {
		_, err := ParseELB(withField(c.pos, c.value))
		if c.ok {
			assert.NoError(t, err, "%q at %d", c.value, c.pos)
		} else {
			assert.Error(t, err, "%q at %d", c.value, c.pos)
		}
	}

	log, err := ParseELB(withField(posRequestProcessingTime, "0"))
	if assert.NoError(t, err) {
		assert.Equal(t, float32(0.0), log.RequestProcessingTime)
	}
	log, err = ParseELB(withField(posSentBytes, "18446744073709551615"))
	if assert.NoError(t, err) {
		assert.Equal(t, uint64(18446744073709551615), log.SentBytes)
	}
}

func TestParseTimestampCommaFraction(t *testing.T) {
	_, err := ParseTimestamp("2015-08-15T23:43:05,302180Z")
	assert.ErrorIs(t, err, ErrTimestamp)

	_, err = ParseELB(withField(posTimestamp, "2015-08-15T23:43:05,302180Z"))
	var perr *ParseError
	if assert.ErrorAs(t, err, &perr) {
		assert.Equal(t, []Field{FieldTimestamp}, perr.Fields())
	}
}

func TestELBParserEndpointErrors(t *testing.T) {
	_, err := ParseELB(withField(posClient, "[2001:db8::1]:443"))
	assert.ErrorIs(t, err, ErrNotIPv4)
	_, err = ParseELB(withField(posRequestProcessingTime, "Inf"))
	assert.ErrorIs(t, err, ErrInvalidNumber)
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, s := range []string{
		"2015-08-15T23:43:05.302180Z",
		"2000-01-01T00:00:00.000000Z",
		"2024-02-29T12:34:56.000001Z",
		"1999-12-31T23:59:59.999999Z",
	} {
		ts, err := ParseTimestamp(s)
		if assert.NoError(t, err) {
			assert.Equal(t, s, FormatTimestamp(ts))
		}
	}
}

func TestQuoteStripping(t *testing.T) {
	type testCase struct {
		method, version         string
		expectedM, expectedVers string
	}
	testCases := []testCase{
		{`"GET`, `HTTP/1.1"`, "GET", "HTTP/1.1"},
		{`""GET`, `HTTP/1.1""`, `"GET`, `HTTP/1.1"`},
		{`GET`, `HTTP/1.1`, "GET", "HTTP/1.1"},
		{`"G"ET"`, `"HTTP/"1.1"`, `G"ET`, `HTTP/"1.1`},
		{`"`, `"`, "", ""},
	}
	for _, c := range testCases {
		line := withField(posMethod, c.method)
		tokens := strings.Split(string(line), " ")
		tokens[posHTTPVersion] = c.version
		log, err := ParseELB([]byte(strings.Join(tokens, " ")))
		if assert.NoError(t, err) {
			assert.Equal(t, c.expectedM, log.Method)
			assert.Equal(t, c.expectedVers, log.HTTPVersion)
		}
	}
}

func TestParseIsPure(t *testing.T) {
	lines := [][]byte{
		[]byte(sampleLine),
		withField(posELBStatusCode, "two-hundred"),
		[]byte(""),
	}
	for _, line := range lines {
		orig := bytes.Clone(line)
		log1, err1 := ParseELB(line)
		log2, err2 := ParseELB(line)
		assert.Equal(t, log1, log2)
		assert.Equal(t, err1, err2)
		assert.Equal(t, orig, line)
	}
}

func TestELBQuotedParserURLWithSpaces(t *testing.T) {
	as := assert.New(t)
	line := strings.Replace(sampleLine, "/path0/path1", "/path 0/path 1", 1) + ` "Mozilla/5.0 (X11; Linux x86_64)" ECDHE-RSA-AES128-GCM-SHA256 TLSv1.2`
	log, err := ParseELBQuoted([]byte(line))
	if as.NoError(err) {
		as.Equal("GET", log.Method)
		as.Equal("http://some.domain.com:80/path 0/path 1?param0=p0&param1=p1", log.URL)
		as.Equal("HTTP/1.1", log.HTTPVersion)
	}

	// Splitting on every space shifts the version onto a URL fragment
	log, err = ParseELB([]byte(line))
	if as.NoError(err) {
		as.Equal("http://some.domain.com:80/path", log.URL)
		as.Equal("0/path", log.HTTPVersion)
	}

	log, err = ParseELBQuoted([]byte(strings.TrimSuffix(sampleLine, `"`)))
	if as.NoError(err) {
		as.Equal("GET", log.Method)
		as.Equal("HTTP/1.1", log.HTTPVersion)
	}
}

func TestSplitRequest(t *testing.T) {
	type testCase struct {
		request                string
		method, url, version string
	}
	testCases := []testCase{
		{"GET / HTTP/1.1", "GET", "/", "HTTP/1.1"},
		{"GET /a b HTTP/1.1", "GET", "/a b", "HTTP/1.1"},
		{"GET /", "GET", "/", ""},
		{"GET", "GET", "", ""},
		{"", "", "", ""},
	}
	for _, c := range testCases {
		m, u, v := splitRequest(c.request)
		assert.Equal(t, c.method, m)
		assert.Equal(t, c.url, u)
		assert.Equal(t, c.version, v)
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := ParseELB(withField(posSentBytes, "lots"))
	require.Error(t, err)
	assert.Equal(t, `malformed line (1 field error): sent bytes: strconv.ParseUint: parsing "lots": invalid syntax`, err.Error())

	var fe FieldError
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, FieldSentBytes, fe.Field)
}
