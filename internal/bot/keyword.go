package bot

import (
	"fmt"
	"strings"

	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/sliceutil"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// LocalityKeywordMatcher handles one or more localities combined with a
// trade keyword ("¿hay carpintería en Perico o Palpalá?"). For each
// requested locality it lists the matching titles; when exactly one
// course matches overall it answers with the full detail and leaves the
// conversation focused on it.
type LocalityKeywordMatcher struct {
	cat *catalog.Catalog
}

// NewLocalityKeywordMatcher creates the locality plus keyword matcher.
func NewLocalityKeywordMatcher(cat *catalog.Catalog) *LocalityKeywordMatcher {
	return &LocalityKeywordMatcher{cat: cat}
}

// Name identifies the matcher in logs and metrics.
func (m *LocalityKeywordMatcher) Name() string { return "locality_keyword" }

// Match answers per-locality course listings filtered by keyword stems.
func (m *LocalityKeywordMatcher) Match(turn *Turn) (string, bool) {
	locs := m.cat.MentionedLocalities(turn.Norm)
	if len(locs) == 0 {
		return "", false
	}

	// A stem counts as requested when it appears anywhere in the text,
	// not only at word starts: "necesito carpinteria" and "algo de
	// carpintero" both activate "carp".
	var stems []string
	for _, root := range keywordRoots {
		if strings.Contains(turn.Norm, root) {
			stems = append(stems, root)
		}
	}
	if len(stems) == 0 {
		return "", false
	}

	var lines []string
	var listed []catalog.Course

	for _, loc := range locs {
		hits := m.hitsFor(loc, stems)
		if len(hits) > 0 {
			items := make([]string, 0, len(hits))
			for _, c := range hits {
				if len(c.Localities) > 0 {
					items = append(items, fmt.Sprintf("%s (%s)", c.Title, textutil.LongDate(c.StartDate)))
				} else {
					items = append(items, fmt.Sprintf("%s (sin sede confirmada)", c.Title))
				}
			}
			listed = append(listed, hits...)
			lines = append(lines, fmt.Sprintf("En %s hay: %s.", loc, strings.Join(items, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("En %s no hay cursos que coincidan con tu búsqueda.", loc))
		}
	}

	// The decision runs on the union of hits: a course dictated in two
	// of the requested localities is still one course.
	union := sliceutil.Deduplicate(listed, func(c catalog.Course) int { return c.ID })

	if len(union) == 1 {
		single := union[0]
		sess := turn.Session
		sess.PendingCourses = []string{single.Title}
		sess.LastLink = single.FormURL

		det := strings.TrimSpace(single.Description)
		if det != "" {
			det += " "
		}
		reply := fmt.Sprintf(
			"Sí, en la localidad de %s se dicta el curso *%s*, el cual inicia el %s. %sEs presencial y gratuito y está en estado de %s. Podés inscribirte desde este formulario: %s ¿Hay algo más en lo que pueda ayudarte?",
			locs[0], single.Title, textutil.LongDate(single.StartDate), det,
			textutil.HumanStatus(single.Status), single.FormURL)
		return reply, true
	}

	if len(union) > 1 {
		pending := make([]string, 0, len(union))
		for _, c := range union {
			pending = append(pending, c.Title)
		}
		sess := turn.Session
		sess.PendingCourses = pending
		sess.LastLink = ""
		return strings.Join(lines, " ") + " ¿Sobre cuál querés más información o inscribirte?", true
	}

	// Every requested locality came up empty; let the fallback take a
	// broader look at the question.
	return "", false
}

// hitsFor returns the courses in loc whose title has a word starting
// with any of the stems, sorted by title.
func (m *LocalityKeywordMatcher) hitsFor(loc string, stems []string) []catalog.Course {
	var hits []catalog.Course
	for _, c := range m.cat.InLocality(loc) {
		if titleHasStem(c.Title, stems) {
			hits = append(hits, c)
		}
	}
	return hits
}

// titleHasStem reports whether any whitespace-separated word of title
// starts with one of the stems, compared without case or accents.
func titleHasStem(title string, stems []string) bool {
	for _, word := range strings.Fields(title) {
		normWord := textutil.Normalize(word)
		for _, stem := range stems {
			if strings.HasPrefix(normWord, stem) {
				return true
			}
		}
	}
	return false
}
