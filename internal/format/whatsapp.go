// Package format converts model output into WhatsApp-ready plain text.
// WhatsApp has no HTML: emphasis uses *asterisks* and _underscores_,
// and links must appear as bare URLs.
package format

import (
	"regexp"
	"strings"
)

var (
	strongPattern = regexp.MustCompile(`(?i)<strong>(.*?)</strong>`)
	boldPattern   = regexp.MustCompile(`(?i)<b>(.*?)</b>`)
	emPattern     = regexp.MustCompile(`(?i)<em>(.*?)</em>`)
	italicPattern = regexp.MustCompile(`(?i)<i>(.*?)</i>`)

	anchorPattern   = regexp.MustCompile(`(?i)<a [^>]*href="([^"]+)".*?</a>`)
	markdownPattern = regexp.MustCompile(`(?i)\[[^\]]*formulario[^\]]*\]\((https?://[^)]+)\)`)

	residualTagPattern = regexp.MustCompile(`</?[^>]+>`)
	linePattern        = regexp.MustCompile(`\r?\n`)
	urlPattern         = regexp.MustCompile(`https?://\S+`)
)

const formLinePrefix = "formulario de inscripción:"

// Render turns a model reply into a single WhatsApp paragraph and
// returns it along with the first bare URL found in the result, if any.
//
// The pipeline mirrors the reply contract the model is prompted with:
// HTML emphasis becomes WhatsApp markers, link markup collapses to a
// "Formulario de inscripción: URL" line, leftover tags are dropped,
// repeated form lines are removed keeping the first, and the remaining
// lines join into one paragraph.
func Render(reply string) (text, url string) {
	r := strings.TrimSpace(reply)

	r = strongPattern.ReplaceAllString(r, "*$1*")
	r = boldPattern.ReplaceAllString(r, "*$1*")
	// The trailing underscore would otherwise be read as part of the
	// group name, so the reference needs braces.
	r = emPattern.ReplaceAllString(r, "_${1}_")
	r = italicPattern.ReplaceAllString(r, "_${1}_")

	r = anchorPattern.ReplaceAllString(r, "Formulario de inscripción: $1")
	r = markdownPattern.ReplaceAllString(r, "Formulario de inscripción: $1")

	r = residualTagPattern.ReplaceAllString(r, "")

	r = dedupeFormLines(r)

	return r, urlPattern.FindString(r)
}

// dedupeFormLines drops repeated "Formulario de inscripción:" lines,
// comparing them lowercased and without a trailing period, and joins
// every surviving line into one space-separated paragraph.
func dedupeFormLines(s string) string {
	lines := linePattern.Split(s, -1)
	seen := make(map[string]bool)
	kept := lines[:0]
	for _, line := range lines {
		key := strings.TrimSpace(strings.TrimSuffix(strings.ToLower(line), "."))
		if strings.HasPrefix(key, formLinePrefix) {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}
