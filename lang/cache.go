package lang

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// parseCache memoizes parsed programs by source hash. Tokens and AST
// nodes are never mutated after construction, so one tree may be shared
// by every evaluation of the same source.
var parseCache sync.Map //nolint:gochecknoglobals

type parseEntry struct {
	once sync.Once
	expr Expr
	err  error
}

// ParseSource tokenizes and parses src, reusing the cached tree when the
// same source has been parsed before. Parse failures are cached too.
func ParseSource(src string) (Expr, error) {
	key := xxh3.HashString(src)

	v, _ := parseCache.LoadOrStore(key, new(parseEntry))
	entry := v.(*parseEntry)

	entry.once.Do(func() {
		toks, err := Tokenize(src)
		if err != nil {
			entry.err = err

			return
		}

		entry.expr, entry.err = Parse(toks)
	})

	return entry.expr, entry.err
}
