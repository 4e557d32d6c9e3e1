package stats

import "strings"

const upperHex = "0123456789ABCDEF"

// EncodeName percent-encodes a player name the way both stats services expect.
// ASCII letters, digits and "*-._" pass through; every other byte of the
// UTF-8 encoding becomes %XX with upper-case hex. Unlike url.PathEscape and
// url.QueryEscape, "~" and space are escaped too.
func EncodeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) * 3)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case '0' <= c && c <= '9', 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z':
		return true
	case c == '*', c == '-', c == '.', c == '_':
		return true
	}
	return false
}
