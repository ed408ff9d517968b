package cache

import (
	"regexp"
	"strings"
)

// compileGlob turns a '*'/'?' glob into an anchored regular expression.
// Every other character matches literally.
func compileGlob(glob string) *regexp.Regexp {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}

// Match reports whether key matches glob under InvalidatePattern's rules.
func Match(glob, key string) bool {
	return compileGlob(glob).MatchString(key)
}
