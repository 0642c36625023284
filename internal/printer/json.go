package printer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hay-kot/plandiff/internal/core/styles"
)

// ColorizeJSON indents data and highlights keys, strings, numbers and
// literals with the active theme. Invalid JSON is returned unchanged.
func ColorizeJSON(data []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return string(data)
	}
	raw := buf.String()

	var out strings.Builder
	for i := 0; i < len(raw); {
		ch := raw[i]
		switch {
		case ch == '"':
			end := stringEnd(raw, i)
			str := raw[i : end+1]
			if isKey(raw[end+1:]) {
				out.WriteString(styles.JSONKeyStyle.Render(str))
			} else {
				out.WriteString(styles.JSONStringStyle.Render(str))
			}
			i = end + 1

		case ch == '-' || (ch >= '0' && ch <= '9'):
			end := i + 1
			for end < len(raw) && strings.IndexByte("0123456789.eE+-", raw[end]) >= 0 {
				end++
			}
			out.WriteString(styles.JSONNumberStyle.Render(raw[i:end]))
			i = end

		case literalAt(raw, i) != "":
			lit := literalAt(raw, i)
			out.WriteString(styles.JSONLiteralStyle.Render(lit))
			i += len(lit)

		case strings.IndexByte("{}[]:,", ch) >= 0:
			out.WriteString(styles.JSONPunctStyle.Render(string(ch)))
			i++

		default:
			out.WriteByte(ch)
			i++
		}
	}

	return out.String()
}

// stringEnd returns the index of the quote closing the string opened at pos.
func stringEnd(s string, pos int) int {
	for i := pos + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return len(s) - 1
}

func isKey(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	return rest != "" && rest[0] == ':'
}

func literalAt(s string, i int) string {
	for _, lit := range []string{"true", "false", "null"} {
		if strings.HasPrefix(s[i:], lit) {
			return lit
		}
	}
	return ""
}
