package parser

import (
	"fmt"
	"net/netip"
	"strconv"
	"time"
)

// TimestampLayout is the timestamp format written by the load balancer,
// e.g. 2015-08-15T23:43:05.302180Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

type Kind int

const (
	KindTimestamp Kind = iota
	KindText
	KindEndpoint
	KindSeconds
	KindStatusCode
	KindByteCount
	KindQuotedText
)

func (k Kind) String() string {
	switch k {
	case KindTimestamp:
		return "timestamp (UTC, microseconds)"
	case KindText:
		return "text"
	case KindEndpoint:
		return "IPv4 address:port"
	case KindSeconds:
		return "float32 seconds"
	case KindStatusCode:
		return "uint16"
	case KindByteCount:
		return "uint64"
	case KindQuotedText:
		return "quoted text"
	}
	return "unknown"
}

type FieldSpec struct {
	Position int
	Name     Field
	Kind     Kind
}

const (
	posTimestamp = iota
	posELBName
	posClient
	posBackend
	posRequestProcessingTime
	posBackendProcessingTime
	posResponseProcessingTime
	posELBStatusCode
	posBackendStatusCode
	posReceivedBytes
	posSentBytes
	posMethod
	posURL
	posHTTPVersion
)

// typedField parses one token into its slot of item.
type typedField struct {
	FieldSpec
	parse func(token string, item *LogItem) error
}

var typedFields = []typedField{
	{FieldSpec{posTimestamp, FieldTimestamp, KindTimestamp}, func(s string, item *LogItem) (err error) {
		item.Time, err = ParseTimestamp(s)
		return
	}},
	{FieldSpec{posClient, FieldClientAddress, KindEndpoint}, func(s string, item *LogItem) (err error) {
		item.Client, err = parseEndpoint(s)
		return
	}},
	{FieldSpec{posBackend, FieldBackendAddress, KindEndpoint}, func(s string, item *LogItem) (err error) {
		item.Backend, err = parseEndpoint(s)
		return
	}},
	{FieldSpec{posRequestProcessingTime, FieldRequestProcessingTime, KindSeconds}, func(s string, item *LogItem) (err error) {
		item.RequestProcessingTime, err = parseSeconds(s)
		return
	}},
	{FieldSpec{posBackendProcessingTime, FieldBackendProcessingTime, KindSeconds}, func(s string, item *LogItem) (err error) {
		item.BackendProcessingTime, err = parseSeconds(s)
		return
	}},
	{FieldSpec{posResponseProcessingTime, FieldResponseProcessingTime, KindSeconds}, func(s string, item *LogItem) (err error) {
		item.ResponseProcessingTime, err = parseSeconds(s)
		return
	}},
	{FieldSpec{posELBStatusCode, FieldELBStatusCode, KindStatusCode}, func(s string, item *LogItem) (err error) {
		item.ELBStatusCode, err = parseStatusCode(s)
		return
	}},
	{FieldSpec{posBackendStatusCode, FieldBackendStatusCode, KindStatusCode}, func(s string, item *LogItem) (err error) {
		item.BackendStatusCode, err = parseStatusCode(s)
		return
	}},
	{FieldSpec{posReceivedBytes, FieldReceivedBytes, KindByteCount}, func(s string, item *LogItem) (err error) {
		item.ReceivedBytes, err = strconv.ParseUint(s, 10, 64)
		return
	}},
	{FieldSpec{posSentBytes, FieldSentBytes, KindByteCount}, func(s string, item *LogItem) (err error) {
		item.SentBytes, err = strconv.ParseUint(s, 10, 64)
		return
	}},
}

// Fields describes every positional field of a line.
func Fields() []FieldSpec {
	return []FieldSpec{
		{posTimestamp, FieldTimestamp, KindTimestamp},
		{posELBName, FieldELBName, KindText},
		{posClient, FieldClientAddress, KindEndpoint},
		{posBackend, FieldBackendAddress, KindEndpoint},
		{posRequestProcessingTime, FieldRequestProcessingTime, KindSeconds},
		{posBackendProcessingTime, FieldBackendProcessingTime, KindSeconds},
		{posResponseProcessingTime, FieldResponseProcessingTime, KindSeconds},
		{posELBStatusCode, FieldELBStatusCode, KindStatusCode},
		{posBackendStatusCode, FieldBackendStatusCode, KindStatusCode},
		{posReceivedBytes, FieldReceivedBytes, KindByteCount},
		{posSentBytes, FieldSentBytes, KindByteCount},
		{posMethod, FieldRequestMethod, KindQuotedText},
		{posURL, FieldRequestURL, KindText},
		{posHTTPVersion, FieldRequestHTTPVersion, KindQuotedText},
	}
}

// ParseTimestamp only accepts TimestampLayout, so FormatTimestamp gives
// back the exact input.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	// time.Parse also takes a comma before the fraction
	if FormatTimestamp(t) != s {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimestamp, s)
	}
	return t, nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func parseEndpoint(s string) (netip.AddrPort, error) {
	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if !ap.Addr().Is4() {
		return netip.AddrPort{}, fmt.Errorf("%w: %q", ErrNotIPv4, s)
	}
	return ap, nil
}

// parseSeconds takes plain decimal notation only: no hex floats, no
// NaN or Inf. The balancer writes -1 when a request was never
// dispatched, so a sign is allowed.
func parseSeconds(s string) (float32, error) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

func parseStatusCode(s string) (uint16, error) {
	code, err := strconv.ParseUint(s, 10, 16)
	return uint16(code), err
}
