package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// keywordRoots are the four-letter stems of the trade keywords users
// combine with a locality (albañilería, carpintería, mecánica, ...).
// The table is closed on purpose: adding a trade to the catalog means
// adding its stem here.
var keywordRoots = []string{
	"alba", "carp", "meca", "indu", "sold", "elec", "plom", "pana", "repa", "cons",
}

var (
	coursePattern = regexp.MustCompile(`(?i)curso`)
	rootsPattern  = regexp.MustCompile(`\b(` + strings.Join(keywordRoots, "|") + `)`)
)

// SingleLocalityMatcher handles "¿qué cursos hay en X?" when exactly
// one known locality is named and no trade keyword narrows the search.
// It lists the locality's full offer and asks which course the user
// wants, leaving the session untouched: the follow-up is expected to
// name a concrete course, which later matchers resolve on their own.
type SingleLocalityMatcher struct {
	cat *catalog.Catalog
}

// NewSingleLocalityMatcher creates the single locality matcher.
func NewSingleLocalityMatcher(cat *catalog.Catalog) *SingleLocalityMatcher {
	return &SingleLocalityMatcher{cat: cat}
}

// Name identifies the matcher in logs and metrics.
func (m *SingleLocalityMatcher) Name() string { return "single_locality" }

// Match lists every course offered in the one mentioned locality,
// alphabetically with start dates.
func (m *SingleLocalityMatcher) Match(turn *Turn) (string, bool) {
	locs := m.cat.MentionedLocalities(turn.Norm)
	if len(locs) != 1 {
		return "", false
	}
	if !coursePattern.MatchString(turn.Text) {
		return "", false
	}
	if rootsPattern.MatchString(turn.Norm) {
		return "", false
	}

	loc := locs[0]
	list := m.cat.InLocality(loc)
	if len(list) == 0 {
		return "", false
	}

	items := make([]string, 0, len(list))
	for _, c := range list {
		items = append(items, fmt.Sprintf("%s (%s)", c.Title, textutil.LongDate(c.StartDate)))
	}
	reply := fmt.Sprintf("En %s hay: %s. ¿Sobre cuál querés más información o inscribirte?",
		loc, strings.Join(items, ", "))
	return reply, true
}
