package bot

import (
	"fmt"
	"strings"

	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// PendingChoiceMatcher resolves an open multiple-choice question. When
// an earlier turn listed several courses, the user's next message
// either names one of them (the conversation collapses onto it) or the
// bot repeats the list. With zero or one pending course this matcher
// stays out of the way.
type PendingChoiceMatcher struct {
	cat *catalog.Catalog
}

// NewPendingChoiceMatcher creates the pending choice matcher.
func NewPendingChoiceMatcher(cat *catalog.Catalog) *PendingChoiceMatcher {
	return &PendingChoiceMatcher{cat: cat}
}

// Name identifies the matcher in logs and metrics.
func (m *PendingChoiceMatcher) Name() string { return "pending_choice" }

// Match collapses the pending list onto a chosen course or re-asks.
func (m *PendingChoiceMatcher) Match(turn *Turn) (string, bool) {
	sess := turn.Session
	if len(sess.PendingCourses) <= 1 {
		return "", false
	}

	if c, ok := m.cat.TitleMentioned(turn.Norm); ok && containsTitle(sess.PendingCourses, c.Title) {
		sess.PendingCourses = []string{c.Title}
		sess.LastLink = c.FormURL
		return m.describe(c), true
	}

	return fmt.Sprintf("Mencionaste varios cursos: %s. ¿Sobre cuál querés saber más?",
		strings.Join(sess.PendingCourses, ", ")), true
}

// describe renders the full detail reply for the chosen course.
func (m *PendingChoiceMatcher) describe(c catalog.Course) string {
	sites := "Todavía no tiene sede confirmada. "
	if len(c.Localities) > 0 {
		sites = fmt.Sprintf("Se dicta en: %s. ", strings.Join(c.Localities, ", "))
	}

	det := strings.TrimSpace(c.Description)
	if det != "" {
		det += " "
	}

	return textutil.StripTags(fmt.Sprintf(
		"*%s*. %sInicia el %s, es presencial y gratuito y está en estado de %s. %sPodés inscribirte desde este formulario: %s",
		c.Title, sites, textutil.LongDate(c.StartDate), textutil.HumanStatus(c.Status), det, c.FormURL))
}

func containsTitle(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}
