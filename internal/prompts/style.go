package prompts

import "strings"

const styleMarker = "LP_PROMPT_STYLE_V1"

const (
	styleText = "text"
	styleJSON = "json"
)

// applyStyle prepends the shared guidance block to a system prompt. Applying it twice is a no-op.
func applyStyle(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, styleMarker) {
		return base
	}

	summary := ""
	for _, line := range strings.Split(base, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			summary = trimmed
			break
		}
	}

	var b strings.Builder
	b.WriteString(styleMarker)
	b.WriteString("\nYou are a patient tutor inside a personal learning planner.")
	if summary != "" {
		b.WriteString("\nTask summary: " + summary)
	}
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nDo not invent links, citations or course names that were not provided.")
	if strings.ToLower(strings.TrimSpace(mode)) == styleJSON {
		b.WriteString("\nReturn a single JSON value that matches the requested shape. No prose, no extra keys.")
	} else {
		b.WriteString("\nPrefer short paragraphs and concrete examples.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
