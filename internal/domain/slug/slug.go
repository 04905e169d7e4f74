// Package slug はURLに使う識別子（slug）を作る。
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make は任意の文字列を slug にする。
// アクセントを落とし、英数字以外は "-" にまとめる。例: "Men's Café" -> "mens-cafe"
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '\'' || r == '’':
			//アポストロフィは区切りにしない
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// Valid は s がすでに正規化済みの slug かどうか。
func Valid(s string) bool {
	return s != "" && Make(s) == s
}
