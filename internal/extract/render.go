package extract

import "strings"

// Render formats a header line and a fenced block. content is reproduced
// byte for byte; a newline is added before the closing fence only when
// content does not already end with one.
func Render(header, lang, content string) string {
	fence := Fence(content)

	var sb strings.Builder
	sb.Grow(len(header) + len(content) + 2*len(fence) + len(lang) + 4)
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(fence)
	sb.WriteString(lang)
	sb.WriteString("\n")
	sb.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(fence)
	sb.WriteString("\n")
	return sb.String()
}

// Fence returns a backtick fence longer than any backtick run at the start
// of a line in content, and never shorter than three.
func Fence(content string) string {
	longest := 0
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		n := len(trimmed) - len(strings.TrimLeft(trimmed, "`"))
		longest = max(longest, n)
	}
	return strings.Repeat("`", max(3, longest+1))
}
