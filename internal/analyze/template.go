package analyze

import (
	"strconv"
	"strings"
)

// regexMeta are the characters that need escaping when a preserved
// punctuation character lands in the anchored regex form.
const regexMeta = `-./_(){}[]*+?^$|\`

// Template abstracts an instrument number into its structural shape: each
// digit becomes D, each letter becomes L, everything else is kept.
// "010905-02162" -> "DDDDDD-DDDDD".
func Template(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune('D')
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune('L')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TemplateRegex converts a template into an anchored regex with runs
// collapsed to counted classes: "DDDDDD-DDDDD" -> `^\d{6}-\d{5}$`.
func TemplateRegex(template string) string {
	var b strings.Builder
	b.WriteByte('^')

	runes := []rune(template)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch r {
		case 'D', 'L':
			j := i
			for j < len(runes) && runes[j] == r {
				j++
			}
			class := `\d`
			if r == 'L' {
				class = `[A-Za-z]`
			}
			b.WriteString(class)
			if j-i > 1 {
				b.WriteString("{")
				b.WriteString(strconv.Itoa(j - i))
				b.WriteString("}")
			}
			i = j
		default:
			if strings.ContainsRune(regexMeta, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
			i++
		}
	}

	b.WriteByte('$')
	return b.String()
}
