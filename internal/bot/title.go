package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// placePattern detects that the user is asking where something happens.
var placePattern = regexp.MustCompile(`(?i)(dónde|donde|localidad|localidades|sede)`)

// ExactTitleMatcher answers site questions about a concretely named
// course ("¿dónde se dicta Soldadura Básica?"). The title may appear
// anywhere in the message; matching is by substring so surrounding
// words do not get in the way.
type ExactTitleMatcher struct {
	cat *catalog.Catalog
}

// NewExactTitleMatcher creates the exact title matcher.
func NewExactTitleMatcher(cat *catalog.Catalog) *ExactTitleMatcher {
	return &ExactTitleMatcher{cat: cat}
}

// Name identifies the matcher in logs and metrics.
func (m *ExactTitleMatcher) Name() string { return "exact_title" }

// Match describes the named course's sites, dates and status, and
// focuses the conversation on it.
func (m *ExactTitleMatcher) Match(turn *Turn) (string, bool) {
	if !placePattern.MatchString(turn.Text) {
		return "", false
	}
	c, ok := m.cat.TitleContained(turn.Norm)
	if !ok {
		return "", false
	}

	sess := turn.Session
	sess.LastLink = c.FormURL
	sess.PendingCourses = []string{c.Title}

	if len(c.Localities) == 0 {
		reply := fmt.Sprintf(
			"*%s* todavía no tiene sede confirmada, es presencial y gratuito, inicia el %s y se encuentra en estado de %s. Formulario de inscripción: %s",
			c.Title, textutil.LongDate(c.StartDate), textutil.HumanStatus(c.Status), c.FormURL)
		return reply, true
	}

	reply := fmt.Sprintf(
		"El curso *%s* se dicta en: %s. Es presencial y gratuito, inicia el %s y está en estado de %s. Formulario de inscripción: %s",
		c.Title, strings.Join(c.Localities, ", "), textutil.LongDate(c.StartDate),
		textutil.HumanStatus(c.Status), c.FormURL)
	return reply, true
}
