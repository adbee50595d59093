package bot

import (
	"fmt"
	"regexp"

	"github.com/cursosjujuy/camila/internal/catalog"
)

// shortcutPattern matches a message that is nothing but a link request.
var shortcutPattern = regexp.MustCompile(`(?i)^(link|formulario|inscribirme)$`)

// ShortcutMatcher resolves bare "link", "formulario" or "inscribirme"
// messages against the conversation's remembered form link. It runs
// first so a link request never gets reinterpreted by later matchers.
type ShortcutMatcher struct {
	cat *catalog.Catalog
}

// NewShortcutMatcher creates the shortcut matcher.
func NewShortcutMatcher(cat *catalog.Catalog) *ShortcutMatcher {
	return &ShortcutMatcher{cat: cat}
}

// Name identifies the matcher in logs and metrics.
func (m *ShortcutMatcher) Name() string { return "shortcut_link" }

// Match replies with the remembered link, or falls back to the first
// pending course's form, or admits there is nothing on record.
func (m *ShortcutMatcher) Match(turn *Turn) (string, bool) {
	if !shortcutPattern.MatchString(turn.Text) {
		return "", false
	}

	sess := turn.Session
	if sess.LastLink != "" {
		return fmt.Sprintf("Formulario de inscripción: %s", sess.LastLink), true
	}

	if len(sess.PendingCourses) > 0 {
		if c, ok := m.cat.FindByTitle(sess.PendingCourses[0]); ok {
			sess.LastLink = c.FormURL
			return fmt.Sprintf("Te paso el link del primero de los cursos que mencionaste (“%s”): %s", c.Title, c.FormURL), true
		}
	}

	return "No tengo un enlace guardado en este momento.", true
}
