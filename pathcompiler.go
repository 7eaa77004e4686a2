package goweb

import (
	"regexp"
	"strings"
)

// Key flags, per spec.md §4.3.
const (
	KeyString = 1 << iota
	KeyAsterisk
	KeyOptional
	KeyRepeat
	KeyPartial
)

// Key is one descriptor produced by compiling a path pattern: either a
// literal string span (Flags&KeyString) or a capturing key with a
// positional index (NValue) or string name (SName), a prefix, a
// delimiter, and the regex fragment it matches.
type Key struct {
	Flags     int
	SName     string
	NValue    int
	Prefix    string
	Delimiter string
	Pattern   string
}

func (k Key) asString() string { return k.Prefix }

// CompileOptions mirrors original_source's COMPILE_* flags.
type CompileOptions struct {
	Strict    bool
	End       bool
	Sensitive bool
	Optimize  bool
}

// DefaultCompileOptions is COMPILE_DEFAULT = (END|SENSITIVE|OPTIMIZE).
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{End: true, Sensitive: true, Optimize: true}
}

// pathToken is either a literal string or a Key, produced by parsePattern.
type pathToken struct {
	literal string
	isKey   bool
	key     Key
}

// tokenScanner mirrors original_source's parse_matcher single regex
// scan over the Express-style pattern syntax.
var tokenScanner = regexp.MustCompile(
	`(\\.)|([/.])?(?:(?::(\w+)(?:\(((?:\\.|[^\\()])+)\))?|\(((?:\\.|[^\\()])+)\))([+*?])?|(\*))`)

// parsePattern tokenizes mask into literal and key tokens, per
// spec.md §4.3: unmatched text between scanner matches becomes a
// literal token.
func parsePattern(mask string) []pathToken {
	var tokens []pathToken
	var pathBuf strings.Builder
	index := 0
	key := 0

	matches := tokenScanner.FindAllStringSubmatchIndex(mask, -1)
	for _, m := range matches {
		offset := m[0]
		end := m[1]
		pathBuf.WriteString(mask[index:offset])
		index = end

		group := func(i int) (string, bool) {
			if m[2*i] < 0 {
				return "", false
			}
			return mask[m[2*i]:m[2*i+1]], true
		}

		if escaped, ok := group(1); ok {
			pathBuf.WriteString(escaped[1:])
			continue
		}

		if pathBuf.Len() > 0 {
			tokens = append(tokens, pathToken{literal: pathBuf.String()})
			pathBuf.Reset()
		}

		prefix, hasPrefix := group(2)
		name, hasName := group(3)
		capture, _ := group(4)
		groupPat, _ := group(5)
		modifier, _ := group(6)
		asterisk, hasAsterisk := group(7)

		var next string
		if end < len(mask) {
			next = mask[end : end+1]
		}
		partial := hasPrefix && next != "" && next != prefix

		repeat := modifier == "+" || modifier == "*"
		optional := modifier == "?" || modifier == "*"
		delimiter := prefix
		if delimiter == "" {
			delimiter = "/"
		}

		pattern := capture
		if pattern == "" {
			pattern = groupPat
		}
		if pattern == "" {
			if hasAsterisk && asterisk != "" {
				pattern = ".*"
			} else {
				pattern = "[^" + regexp.QuoteMeta(delimiter) + "]+?"
			}
		}

		k := Key{
			Prefix:    prefix,
			Delimiter: delimiter,
			Pattern:   pattern,
		}
		if optional {
			k.Flags |= KeyOptional
		}
		if repeat {
			k.Flags |= KeyRepeat
		}
		if partial {
			k.Flags |= KeyPartial
		}
		if hasAsterisk && asterisk != "" {
			k.Flags |= KeyAsterisk
		}
		if hasName && name != "" {
			k.SName = name
		} else {
			k.NValue = key
			key++
		}

		tokens = append(tokens, pathToken{isKey: true, key: k})
	}

	pathBuf.WriteString(mask[index:])
	if pathBuf.Len() > 0 {
		tokens = append(tokens, pathToken{literal: pathBuf.String()})
	}

	return tokens
}

// Matcher is the compiled form of a path pattern: a regex anchored at
// both ends (Go's RE2 engine has no lookahead — see spec.md §9's design
// note on this exact tradeoff — so End mode ends in "$" and non-End mode
// ends in an optional "/..." tail followed by "$") plus the key list in
// match order, and the end/strict flags that Matches checks again.
type Matcher struct {
	re     *regexp.Regexp
	keys   []Key
	end    bool
	strict bool
}

// MakeMatcher compiles mask into a Matcher, per spec.md §4.3.
func MakeMatcher(mask string, opts CompileOptions) (*Matcher, error) {
	tokens := parsePattern(mask)

	var keys []Key
	var route strings.Builder

	endsWithSlash := false
	if len(tokens) > 0 && !tokens[len(tokens)-1].isKey {
		lit := tokens[len(tokens)-1].literal
		endsWithSlash = strings.HasSuffix(lit, "/")
	}

	for _, t := range tokens {
		if !t.isKey {
			route.WriteString(regexp.QuoteMeta(t.literal))
			continue
		}
		k := t.key
		keys = append(keys, k)

		prefix := regexp.QuoteMeta(k.Prefix)
		capture := "(?:" + k.Pattern + ")"
		if k.Flags&KeyRepeat != 0 {
			capture = capture + "(?:" + prefix + capture + ")*"
		}

		switch {
		case k.Flags&KeyOptional != 0 && k.Flags&KeyPartial != 0:
			capture = prefix + "(" + capture + ")?"
		case k.Flags&KeyOptional != 0:
			capture = "(?:" + prefix + "(" + capture + "))?"
		default:
			capture = prefix + "(" + capture + ")"
		}
		route.WriteString(capture)
	}

	routeStr := route.String()
	if !opts.Strict {
		if endsWithSlash && strings.HasSuffix(routeStr, "/") {
			routeStr = strings.TrimSuffix(routeStr, "/") + `(?:/)?`
		} else {
			routeStr += `(?:/)?`
		}
	}

	full := "^" + routeStr
	if opts.End {
		full += "$"
	} else {
		full += `(?:/(?s:.*))?$`
	}
	if !opts.Sensitive {
		full = "(?i)" + full
	}

	re, err := regexp.Compile(full)
	if err != nil {
		return nil, err
	}
	return &Matcher{re: re, keys: keys, end: opts.End, strict: opts.Strict}, nil
}

// Matches attempts to match path, returning the bound params in key
// order on success. It replicates the original's look-ahead based
// boundary checks without a look-ahead-capable engine: End mode
// requires the match to consume the entire path; non-End mode requires
// whatever follows the matched prefix to be empty or a '/' (a segment
// boundary), per spec.md §9's open question on this exact substitution.
func (m *Matcher) Matches(path string) ([]Param, bool) {
	loc := m.re.FindStringSubmatchIndex(path)
	if loc == nil || loc[0] != 0 {
		return nil, false
	}
	matchEnd := loc[1]

	if m.end {
		if matchEnd != len(path) {
			return nil, false
		}
	} else {
		if matchEnd != len(path) && path[matchEnd] != '/' {
			return nil, false
		}
	}

	params := make([]Param, 0, len(m.keys))
	// loc has 2 ints for the whole match plus 2 per capturing group;
	// each key contributes exactly one capturing group, in order.
	for i, k := range m.keys {
		gi := 2 + i*2
		var val string
		if gi+1 < len(loc) && loc[gi] >= 0 {
			val = path[loc[gi]:loc[gi+1]]
		}
		p := Param{Value: val}
		if k.SName != "" {
			p.SName = k.SName
		} else {
			p.NName = k.NValue
		}
		params = append(params, p)
	}
	return params, true
}
