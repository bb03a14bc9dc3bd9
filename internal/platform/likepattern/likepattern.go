// Package likepattern builds and evaluates SQL LIKE patterns using '\' as the
// escape character.
package likepattern

import "strings"

const escape = '\\'

var escaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Fuzzy turns raw user input into a containment pattern. Wildcard characters
// in the input are escaped so they only match literally; each space becomes
// a '%' so "jo sm" matches "John Smith".
func Fuzzy(raw string) string {
	escaped := escaper.Replace(raw)
	return "%" + strings.ReplaceAll(escaped, " ", "%") + "%"
}

type token struct {
	r    rune
	kind byte // 'l' literal, '_' any one, '%' any run
}

func compile(pattern string) []token {
	rs := []rune(pattern)
	out := make([]token, 0, len(rs))
	for i := 0; i < len(rs); i++ {
		switch rs[i] {
		case escape:
			if i+1 < len(rs) {
				i++
			}
			out = append(out, token{r: rs[i], kind: 'l'})
		case '%':
			if n := len(out); n > 0 && out[n-1].kind == '%' {
				continue
			}
			out = append(out, token{kind: '%'})
		case '_':
			out = append(out, token{kind: '_'})
		default:
			out = append(out, token{r: rs[i], kind: 'l'})
		}
	}
	return out
}

// MatchFold reports whether s matches the LIKE pattern, ignoring case.
// It mirrors Postgres ILIKE with the default escape character.
func MatchFold(pattern, s string) bool {
	toks := compile(strings.ToLower(pattern))
	rs := []rune(strings.ToLower(s))

	// Greedy matching with a single backtrack point, as for glob patterns.
	ti, si := 0, 0
	starT, starS := -1, 0
	for si < len(rs) {
		if ti < len(toks) {
			switch tk := toks[ti]; tk.kind {
			case '%':
				starT, starS = ti, si
				ti++
				continue
			case '_':
				ti++
				si++
				continue
			default:
				if tk.r == rs[si] {
					ti++
					si++
					continue
				}
			}
		}
		if starT < 0 {
			return false
		}
		starS++
		ti, si = starT+1, starS
	}
	for ti < len(toks) && toks[ti].kind == '%' {
		ti++
	}
	return ti == len(toks)
}
