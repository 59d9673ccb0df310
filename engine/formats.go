package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var intLiteral = regexp.MustCompile(`^[-+]?[0-9]+$`)

// DefaultFormats returns the formats every Engine registers: "int32" and
// "int64" (integer literal strings, integral numbers within range) and
// "url" (http, https or ftp URLs, scheme optional).
func DefaultFormats() []*jsonschema.Format {
	return []*jsonschema.Format{
		{Name: "int32", Validate: intFormat(32)},
		{Name: "int64", Validate: intFormat(64)},
		{Name: "url", Validate: validateURL},
	}
}

func mergeFormats(base, extra []*jsonschema.Format) []*jsonschema.Format {
	out := make([]*jsonschema.Format, 0, len(base)+len(extra))
	index := make(map[string]int, len(base)+len(extra))
	for _, f := range append(base, extra...) {
		if f == nil {
			continue
		}
		if i, ok := index[f.Name]; ok {
			out[i] = f
			continue
		}
		index[f.Name] = len(out)
		out = append(out, f)
	}
	return out
}

func intFormat(bits int) func(any) error {
	return func(v any) error {
		switch v := v.(type) {
		case string:
			if !intLiteral.MatchString(v) {
				return errors.New("not an integer")
			}
		case json.Number:
			if _, err := strconv.ParseInt(v.String(), 10, bits); errors.Is(err, strconv.ErrRange) {
				return fmt.Errorf("out of range for %d-bit integer", bits)
			}
		case float64:
			if v != math.Trunc(v) {
				return nil
			}
			if bits == 32 && (v < math.MinInt32 || v > math.MaxInt32) {
				return fmt.Errorf("out of range for %d-bit integer", bits)
			}
		}
		return nil
	}
}

var (
	urlSchemes = map[string]bool{"http": true, "https": true, "ftp": true}
	// schemePrefix matches "scheme:" at the start of a URL; portSuffix tells
	// a "host:port" remainder apart from an opaque one.
	schemePrefix = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*):`)
	portSuffix   = regexp.MustCompile(`^[0-9]+([/?#]|$)`)
)

func validateURL(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return errors.New("not a URL")
	}
	raw := s
	if !strings.Contains(raw, "://") {
		if m := schemePrefix.FindStringSubmatch(raw); m != nil && !portSuffix.MatchString(raw[len(m[0]):]) {
			return fmt.Errorf("scheme %q not allowed", m[1])
		}
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !urlSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("scheme %q not allowed", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("missing host")
	}
	if net.ParseIP(host) == nil && !strings.Contains(strings.Trim(host, "."), ".") {
		return errors.New("host needs a top-level domain")
	}
	return nil
}
