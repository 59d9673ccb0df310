// Package options provides shared checks for functional option sets.
package options

import (
	"strings"

	"github.com/erraggy/oasgate/oaserrors"
)

// Source names one way of supplying a document and whether it was set.
type Source struct {
	Option string
	Set    bool
}

// ValidateSingleSource ensures exactly one of sources is set. The returned
// error is a *oaserrors.ConfigError naming the competing options.
func ValidateSingleSource(pkg string, sources ...Source) error {
	var set, all []string
	for _, s := range sources {
		all = append(all, s.Option)
		if s.Set {
			set = append(set, s.Option)
		}
	}

	switch len(set) {
	case 1:
		return nil
	case 0:
		return &oaserrors.ConfigError{
			Option:  strings.Join(all, "|"),
			Message: pkg + ": must specify a document source",
		}
	default:
		return &oaserrors.ConfigError{
			Option:  strings.Join(set, "|"),
			Message: pkg + ": must specify exactly one document source",
		}
	}
}
