package engine

import (
	"strconv"

	"github.com/ohler55/ojg/jp"
)

// instancePath renders a JSON Pointer token list as a JSONPath. The value is
// walked alongside the tokens so that array indexes become [n] and object
// keys that happen to be numeric stay keys.
func instancePath(root any, tokens []string) string {
	x := jp.R()
	cur := root
	for _, tok := range tokens {
		switch v := cur.(type) {
		case []any:
			if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(v) {
				x = x.N(i)
				cur = v[i]
				continue
			}
		case map[string]any:
			x = x.C(tok)
			cur = v[tok]
			continue
		}
		x = x.C(tok)
		cur = nil
	}
	return x.String()
}
