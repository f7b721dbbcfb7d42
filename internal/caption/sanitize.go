package caption

import "strings"

// maxCaptionLen caps a sanitized caption; longer model output is cut at the
// previous word boundary.
const maxCaptionLen = 120

// Sanitize reduces raw model output to a single usable caption line: the
// first non-empty line with preamble, surrounding quotes and markdown
// emphasis stripped. Returns "" when nothing usable remains.
func Sanitize(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Skip common model preamble rather than using it as a caption.
		if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "Sure") || strings.HasPrefix(line, "Caption:") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "Caption:"))
			if line == "" || strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "Sure") {
				continue
			}
		}

		line = strings.Trim(line, `"'*_`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if len(line) > maxCaptionLen {
			cut := strings.LastIndex(line[:maxCaptionLen], " ")
			if cut <= 0 {
				cut = maxCaptionLen
			}
			line = line[:cut]
		}
		return line
	}
	return ""
}
