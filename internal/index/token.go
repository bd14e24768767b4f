package index

import "strings"

// MinTokenLength is the shortest token indexed unless allow-listed.
const MinTokenLength = 3

// shortTokens are domain abbreviations kept despite being short.
var shortTokens = map[string]struct{}{
	"ui": {}, "os": {}, "ai": {}, "ux": {},
	"llm": {}, "sse": {}, "mcp": {}, "api": {},
	"jwt": {}, "cli": {}, "sdk": {},
}

// Tokens lower-cases text, splits on non-alphanumeric boundaries, and drops
// tokens shorter than MinTokenLength unless they are allow-listed short
// domain terms.
func Tokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isTokenRune(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if keepToken(f) {
			out = append(out, f)
		}
	}
	return out
}

// QueryTokens tokenizes a query, deduplicating while preserving order so
// scoring and result maps are deterministic.
func QueryTokens(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range Tokens(query) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Variants returns simple suffix-stripped forms of a token (plural and
// participle endings) so a query token matches morphological variants of an
// indexed term. The original token is not included.
func Variants(token string) []string {
	var out []string
	add := func(v string) {
		if v == token || !keepToken(v) {
			return
		}
		for _, existing := range out {
			if existing == v {
				return
			}
		}
		out = append(out, v)
	}

	switch {
	case strings.HasSuffix(token, "ies"):
		add(strings.TrimSuffix(token, "ies") + "y")
		add(strings.TrimSuffix(token, "s"))
	case strings.HasSuffix(token, "es"):
		add(strings.TrimSuffix(token, "es"))
		add(strings.TrimSuffix(token, "s"))
	case strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss"):
		add(strings.TrimSuffix(token, "s"))
	}
	if strings.HasSuffix(token, "ing") {
		add(strings.TrimSuffix(token, "ing"))
		add(strings.TrimSuffix(token, "ing") + "e")
	}
	if strings.HasSuffix(token, "ed") {
		add(strings.TrimSuffix(token, "ed"))
		add(strings.TrimSuffix(token, "d"))
	}
	return out
}

// wordMatches reports whether an indexed word matches a query token, either
// exactly or through one of the word's suffix variants.
func wordMatches(word, token string) bool {
	if word == token {
		return true
	}
	for _, v := range Variants(word) {
		if v == token {
			return true
		}
	}
	return false
}

func keepToken(t string) bool {
	if len(t) >= MinTokenLength {
		return true
	}
	_, ok := shortTokens[t]
	return ok
}

func isTokenRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
}

func isTokenByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
