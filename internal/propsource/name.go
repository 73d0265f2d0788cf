package propsource

import "strings"

// CanonicalName folds a dotted property name into its canonical form so that
// equivalent spellings compare equal: lookups are case-insensitive and
// dash/underscore separators inside an element are insignificant. Indexed
// elements such as "hosts[0]" keep their brackets.
//
// Examples: "server.mainPort", "server.main-port" and "SERVER.MAIN_PORT" all
// canonicalize to "server.mainport".
func CanonicalName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '-' || r == '_':
			// separator characters are insignificant within an element
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// HasPrefix reports whether the canonical form of name sits under the given
// dotted prefix. An empty prefix matches everything.
func HasPrefix(name, prefix string) bool {
	if prefix == "" {
		return true
	}
	cn := CanonicalName(name)
	cp := CanonicalName(strings.TrimSuffix(prefix, ".")) + "."
	return strings.HasPrefix(cn, cp)
}
