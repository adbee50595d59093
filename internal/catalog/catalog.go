// Package catalog loads and serves the fixed course offer the bot
// answers about. The catalog is read once at startup and treated as
// immutable for the life of the process.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cursosjujuy/camila/internal/sliceutil"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// Course is one entry of the course offer. JSON field names follow the
// published data file.
type Course struct {
	ID          int      `json:"id"`
	Title       string   `json:"titulo"`
	Description string   `json:"descripcion"`
	Localities  []string `json:"localidades"`
	FormURL     string   `json:"formulario"`
	StartDate   string   `json:"fecha_inicio"`
	Status      string   `json:"estado"`
	Requisites  string   `json:"requisitos"`
}

// Course status codes as they appear in the data file.
const (
	StatusOpen     = "inscripcion_abierta"
	StatusUpcoming = "proximo"
	StatusRunning  = "en_curso"
	StatusFinished = "finalizado"
)

// Catalog holds the parsed courses plus the raw JSON text, which is fed
// verbatim to the language model as its knowledge block.
type Catalog struct {
	courses    []Course
	raw        string
	localities []string
}

// Load reads the catalog from path. A missing or unparseable file is
// not fatal: the bot keeps running with an empty offer and the caller
// receives the error for logging.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return New(nil, ""), fmt.Errorf("read catalog: %w", err)
	}

	var courses []Course
	if err := json.Unmarshal(data, &courses); err != nil {
		// Keep the raw text anyway so the model context is not empty.
		return New(nil, string(data)), fmt.Errorf("parse catalog: %w", err)
	}
	return New(courses, string(data)), nil
}

// New builds a catalog from already parsed courses. Used by Load and by
// tests.
func New(courses []Course, raw string) *Catalog {
	return &Catalog{
		courses:    courses,
		raw:        raw,
		localities: collectLocalities(courses),
	}
}

// collectLocalities flattens every course's locality list into a
// deduplicated slice, first appearance first.
func collectLocalities(courses []Course) []string {
	var all []string
	for _, c := range courses {
		all = append(all, c.Localities...)
	}
	return sliceutil.Deduplicate(all, func(loc string) string { return loc })
}

// Courses returns the full course list. Callers must not mutate it.
func (cat *Catalog) Courses() []Course { return cat.courses }

// Raw returns the catalog file content as read from disk.
func (cat *Catalog) Raw() string { return cat.raw }

// Len returns the number of parsed courses.
func (cat *Catalog) Len() int { return len(cat.courses) }

// Localities returns every known locality name, deduplicated.
func (cat *Catalog) Localities() []string { return cat.localities }

// FindByTitle returns the course whose title matches exactly.
func (cat *Catalog) FindByTitle(title string) (Course, bool) {
	for _, c := range cat.courses {
		if c.Title == title {
			return c, true
		}
	}
	return Course{}, false
}

// MentionedLocalities returns the known localities whose normalized
// name appears as a whole word in the normalized text, in catalog
// order.
func (cat *Catalog) MentionedLocalities(normText string) []string {
	var out []string
	for _, loc := range cat.localities {
		if textutil.ContainsWord(normText, textutil.Normalize(loc)) {
			out = append(out, loc)
		}
	}
	return out
}

// InLocality returns the courses offered in loc sorted by title.
func (cat *Catalog) InLocality(loc string) []Course {
	var out []Course
	for _, c := range cat.courses {
		if containsString(c.Localities, loc) {
			out = append(out, c)
		}
	}
	sortByTitle(out)
	return out
}

// TitleContained returns the first course whose normalized title is a
// plain substring of the normalized text. Looser than TitleMentioned;
// the site question matcher wants the loose form.
func (cat *Catalog) TitleContained(normText string) (Course, bool) {
	for _, c := range cat.courses {
		if strings.Contains(normText, textutil.Normalize(c.Title)) {
			return c, true
		}
	}
	return Course{}, false
}

// TitleMentioned returns the first course whose normalized title occurs
// as a whole phrase in the normalized text.
func (cat *Catalog) TitleMentioned(normText string) (Course, bool) {
	for _, c := range cat.courses {
		if textutil.ContainsWord(normText, textutil.Normalize(c.Title)) {
			return c, true
		}
	}
	return Course{}, false
}

// TitlesMentioned returns every course whose normalized title occurs as
// a whole phrase in the normalized text, ordered by where the title
// first appears in the text, deduplicated by normalized title.
func (cat *Catalog) TitlesMentioned(normText string) []Course {
	type hit struct {
		course Course
		pos    int
	}
	seen := make(map[string]bool)
	var hits []hit
	for _, c := range cat.courses {
		key := textutil.Normalize(c.Title)
		if seen[key] {
			continue
		}
		if pos := textutil.IndexWord(normText, key); pos >= 0 {
			seen[key] = true
			hits = append(hits, hit{course: c, pos: pos})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]Course, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.course)
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// sortByTitle orders courses alphabetically on the accent-folded title,
// so "Álbum" sorts with "Album" instead of after "Z".
func sortByTitle(courses []Course) {
	sort.Slice(courses, func(i, j int) bool {
		return textutil.Normalize(courses[i].Title) < textutil.Normalize(courses[j].Title)
	})
}
