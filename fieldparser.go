package goweb

import (
	"bufio"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// fieldParserResult is the outcome of decoding one header block.
type fieldParserResult int

const (
	fpSeparator fieldParserResult = iota // terminating empty line seen
	fpError
)

// rawField is one accumulated header line span, pre-rearrange: the
// field name exactly as it appeared, and its value with any obsolete
// line folds already appended (but not yet trimmed/collapsed).
type rawField struct {
	name  string
	value string
}

// fieldParser reads CRLF-delimited header lines until the terminating
// empty line, per spec.md §4.1. It is grounded on
// original_source/include/web/request_parser.h's field_parser and
// reused (via pool.go) across requests on a persistent connection.
type fieldParser struct {
	fields []rawField
}

func newFieldParser() *fieldParser {
	return &fieldParser{}
}

func (fp *fieldParser) reset() {
	fp.fields = fp.fields[:0]
}

// maxHeadersSize bounds the total bytes consumed by the header block,
// grounded on shockwave/pkg/shockwave/http11/constants.go's MaxHeadersSize.
const maxHeadersSize = 8192

// decode reads lines from r until the blank-line terminator, applying
// obsolete line folding and colon-split field extraction. It returns
// fpSeparator on success or fpError on any malformed line.
func (fp *fieldParser) decode(r *bufio.Reader) fieldParserResult {
	total := 0
	for {
		line, err := readCRLFLine(r)
		if err != nil {
			return fpError
		}
		total += len(line) + 2
		if total > maxHeadersSize {
			return fpError
		}
		if len(line) == 0 {
			return fpSeparator
		}

		if line[0] == ' ' || line[0] == '\t' {
			// Obsolete line folding: append to the previous field's value.
			if len(fp.fields) == 0 {
				return fpError
			}
			last := &fp.fields[len(fp.fields)-1]
			last.value += "\r\n" + line
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			return fpError
		}
		name := line[:colon]
		if !httpguts.ValidHeaderFieldName(name) {
			return fpError
		}
		fp.fields = append(fp.fields, rawField{
			name:  name,
			value: line[colon+1:],
		})
	}
}

// readCRLFLine reads one line terminated by CRLF, returning it without
// the terminator. A bare LF not preceded by CR, or a CR anywhere else in
// the line, is rejected.
func readCRLFLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return "", ErrBareCR
	}
	line = line[:len(line)-2]
	if strings.IndexByte(line, '\r') >= 0 {
		return "", ErrBareCR
	}
	return line, nil
}

// rearrange canonicalizes fp's accumulated raw fields into h, per
// spec.md §4.1: names are lower-cased and looked up via MakeHeaderKey;
// values have CR LF WS fold sequences collapsed to a single space and
// surrounding whitespace trimmed.
func (fp *fieldParser) rearrange(h *Headers) {
	for _, f := range fp.fields {
		key := MakeHeaderKey(strings.TrimSpace(f.name))
		h.Add(key, produceValue(f.value))
	}
}

// produceValue trims the raw span and collapses only the "CRLF WS+" fold
// sequences decode introduced into a single space each, per spec.md
// §4.1 ("internal CR LF WS sequences collapsed to a single SP").
// Whitespace runs the client sent itself, with no fold boundary, are
// left untouched so a value like "a  b" round-trips unchanged.
func produceValue(raw string) string {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == '\r' && i+1 < len(raw) && raw[i+1] == '\n' {
			b.WriteByte(' ')
			i += 2
			for i < len(raw) && (raw[i] == ' ' || raw[i] == '\t') {
				i++
			}
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return strings.TrimSpace(b.String())
}
