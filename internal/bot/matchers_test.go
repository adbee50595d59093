package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/session"
)

func TestShortcutRepliesStoredLink(t *testing.T) {
	m := NewShortcutMatcher(testCatalog(soldaduraBasica()))
	sess := &session.Session{LastLink: "https://forms.test/soldadura-basica"}

	first, ok := m.Match(NewTurn("chat", "link", sess))
	require.True(t, ok)
	assert.Equal(t, "Formulario de inscripción: https://forms.test/soldadura-basica", first)

	// Asking again without any state change repeats the same link.
	second, ok := m.Match(NewTurn("chat", "formulario", sess))
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestShortcutResolvesFirstPendingCourse(t *testing.T) {
	m := NewShortcutMatcher(testCatalog(soldaduraBasica(), soldaduraAvanzada()))
	sess := &session.Session{
		PendingCourses: []string{"Soldadura Avanzada", "Soldadura Básica"},
	}

	reply, ok := m.Match(NewTurn("chat", "inscribirme", sess))
	require.True(t, ok)
	assert.Contains(t, reply, "Soldadura Avanzada")
	assert.Contains(t, reply, "https://forms.test/soldadura-avanzada")
	assert.Equal(t, "https://forms.test/soldadura-avanzada", sess.LastLink)
}

func TestShortcutUnknownPendingTitle(t *testing.T) {
	m := NewShortcutMatcher(testCatalog(soldaduraBasica()))
	sess := &session.Session{PendingCourses: []string{"Curso Fantasma"}}

	reply, ok := m.Match(NewTurn("chat", "link", sess))
	require.True(t, ok)
	assert.Equal(t, "No tengo un enlace guardado en este momento.", reply)
	assert.Empty(t, sess.LastLink)
}

func TestShortcutOnlyMatchesBareWords(t *testing.T) {
	m := NewShortcutMatcher(testCatalog(soldaduraBasica()))
	sess := &session.Session{LastLink: "https://forms.test/soldadura-basica"}

	_, ok := m.Match(NewTurn("chat", "mandame el link", sess))
	assert.False(t, ok)
}

func TestSingleLocalityListsWithoutSettingPending(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), soldaduraAvanzada(), carpinteriaBanco())
	reg := NewDefaultRegistry(cat)
	sess := &session.Session{}

	reply, name, ok := reg.Dispatch(NewTurn("chat", "que cursos hay en palpala", sess))
	require.True(t, ok)
	assert.Equal(t, "single_locality", name)
	assert.Equal(t,
		"En Palpalá hay: Soldadura Avanzada (1 de agosto), Soldadura Básica (10 de julio). ¿Sobre cuál querés más información o inscribirte?",
		reply)

	// The listing deliberately leaves the session untouched even
	// though several candidates were offered: a follow-up naming one
	// of them is resolved by the title matchers, not by pending state.
	assert.Empty(t, sess.PendingCourses)
	assert.Empty(t, sess.LastLink)
}

func TestSingleLocalityRequiresCourseWord(t *testing.T) {
	m := NewSingleLocalityMatcher(testCatalog(soldaduraBasica()))

	_, ok := m.Match(NewTurn("chat", "que hay en palpala", &session.Session{}))
	assert.False(t, ok)
}

func TestSingleLocalityYieldsToKeywordSearch(t *testing.T) {
	m := NewSingleLocalityMatcher(testCatalog(soldaduraBasica()))

	// A trade keyword means the narrower matcher should handle it.
	_, ok := m.Match(NewTurn("chat", "cursos de soldadura en palpala", &session.Session{}))
	assert.False(t, ok)
}

func TestSingleLocalityUnknownTownDeclines(t *testing.T) {
	m := NewSingleLocalityMatcher(testCatalog(soldaduraBasica()))

	// Tilcara has no courses, so it is not a known locality at all.
	_, ok := m.Match(NewTurn("chat", "cursos en tilcara", &session.Session{}))
	assert.False(t, ok)
}

func TestLocalityKeywordPerLocalityLines(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), soldaduraAvanzada(), carpinteriaBanco())
	m := NewLocalityKeywordMatcher(cat)
	sess := &session.Session{LastLink: "https://forms.test/previo"}

	reply, ok := m.Match(NewTurn("chat", "cursos de soldadura en palpala y perico", sess))
	require.True(t, ok)
	assert.Contains(t, reply, "En Palpalá hay: Soldadura Avanzada (1 de agosto), Soldadura Básica (10 de julio).")
	assert.Contains(t, reply, "En Perico no hay cursos que coincidan con tu búsqueda.")
	assert.Contains(t, reply, "¿Sobre cuál querés más información o inscribirte?")

	assert.Equal(t, []string{"Soldadura Avanzada", "Soldadura Básica"}, sess.PendingCourses)
	assert.Empty(t, sess.LastLink, "an open choice clears the stored link")
}

func TestLocalityKeywordSingleHitUsesFirstLocality(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), carpinteriaBanco())
	m := NewLocalityKeywordMatcher(cat)
	sess := &session.Session{}

	reply, ok := m.Match(NewTurn("chat", "hay carpinteria en palpala o perico?", sess))
	require.True(t, ok)

	// The detail sentence names the first requested locality, not the
	// one where the course is actually offered.
	assert.Contains(t, reply, "en la localidad de Palpalá se dicta el curso *Carpintería de Banco*")
	assert.Contains(t, reply, "10 de agosto")
	assert.Contains(t, reply, "Trabajo en madera con herramientas de banco.")
	assert.Equal(t, []string{"Carpintería de Banco"}, sess.PendingCourses)
	assert.Equal(t, "https://forms.test/carpinteria", sess.LastLink)
}

func TestLocalityKeywordSharedCourseCountsOnce(t *testing.T) {
	shared := catalog.Course{
		ID:         9,
		Title:      "Soldadura Regional",
		Localities: []string{"Palpalá", "Perico"},
		FormURL:    "https://forms.test/soldadura-regional",
		StartDate:  "2025-09-01",
		Status:     catalog.StatusOpen,
	}
	cat := testCatalog(shared)
	m := NewLocalityKeywordMatcher(cat)
	sess := &session.Session{}

	// One course offered in both requested localities is still a
	// single hit, so the reply goes straight to the detail card.
	reply, ok := m.Match(NewTurn("chat", "cursos de soldadura en palpala y perico", sess))
	require.True(t, ok)
	assert.Contains(t, reply, "se dicta el curso *Soldadura Regional*")
	assert.NotContains(t, reply, "¿Sobre cuál querés más información")
	assert.Equal(t, []string{"Soldadura Regional"}, sess.PendingCourses)
	assert.Equal(t, "https://forms.test/soldadura-regional", sess.LastLink)
}

func TestLocalityKeywordNoHitsDeclines(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), carpinteriaBanco())
	m := NewLocalityKeywordMatcher(cat)
	sess := &session.Session{}

	_, ok := m.Match(NewTurn("chat", "cursos de panaderia en palpala", sess))
	assert.False(t, ok)
	assert.Empty(t, sess.PendingCourses)
}

func TestLocalityKeywordStemMatchesWordStartsOnly(t *testing.T) {
	// "Construcción" must not match the "sold" stem; only a word
	// starting with a requested stem counts.
	cat := testCatalog(
		soldaduraBasica(),
		catalog.Course{
			ID: 5, Title: "Seguridad en Obras de Construcción",
			Localities: []string{"Palpalá"},
			FormURL:    "https://forms.test/seguridad",
			StartDate:  "2025-09-15",
			Status:     catalog.StatusOpen,
		},
	)
	m := NewLocalityKeywordMatcher(cat)
	sess := &session.Session{}

	reply, ok := m.Match(NewTurn("chat", "cursos de soldadura en palpala", sess))
	require.True(t, ok)
	assert.Contains(t, reply, "Soldadura Básica")
	assert.NotContains(t, reply, "Seguridad en Obras de Construcción")
}

func TestExactTitleWithSites(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), carpinteriaBanco())
	reg := NewDefaultRegistry(cat)
	sess := &session.Session{}

	reply, name, ok := reg.Dispatch(NewTurn("chat", "donde se dicta soldadura basica?", sess))
	require.True(t, ok)
	assert.Equal(t, "exact_title", name)
	assert.Contains(t, reply, "El curso *Soldadura Básica* se dicta en: Palpalá.")
	assert.Contains(t, reply, "Formulario de inscripción: https://forms.test/soldadura-basica")

	assert.Equal(t, []string{"Soldadura Básica"}, sess.PendingCourses)
	assert.Equal(t, "https://forms.test/soldadura-basica", sess.LastLink)
}

func TestExactTitleWithoutConfirmedSite(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), panaderiaArtesanal())
	m := NewExactTitleMatcher(cat)
	sess := &session.Session{}

	reply, ok := m.Match(NewTurn("chat", "en que sede se hace panaderia artesanal", sess))
	require.True(t, ok)
	assert.Contains(t, reply, "*Panadería Artesanal* todavía no tiene sede confirmada")
	assert.Contains(t, reply, "20 de julio")
	assert.Contains(t, reply, "proximo")
	assert.Equal(t, []string{"Panadería Artesanal"}, sess.PendingCourses)
}

func TestExactTitleNeedsPlaceQuestion(t *testing.T) {
	m := NewExactTitleMatcher(testCatalog(soldaduraBasica()))

	_, ok := m.Match(NewTurn("chat", "me interesa soldadura basica", &session.Session{}))
	assert.False(t, ok)
}

func TestPendingChoiceRepromptsVerbatim(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), soldaduraAvanzada())
	reg := NewDefaultRegistry(cat)
	sess := &session.Session{
		PendingCourses: []string{"Soldadura Avanzada", "Soldadura Básica"},
	}

	// Even a question the FAQ could answer must re-ask while the
	// choice is open.
	reply, name, ok := reg.Dispatch(NewTurn("chat", "cuanto cuesta?", sess))
	require.True(t, ok)
	assert.Equal(t, "pending_choice", name)
	assert.Equal(t,
		"Mencionaste varios cursos: Soldadura Avanzada, Soldadura Básica. ¿Sobre cuál querés saber más?",
		reply)
	assert.Equal(t, []string{"Soldadura Avanzada", "Soldadura Básica"}, sess.PendingCourses)
}

func TestPendingChoiceIgnoresSingleOrEmptyPending(t *testing.T) {
	m := NewPendingChoiceMatcher(testCatalog(soldaduraBasica()))

	_, ok := m.Match(NewTurn("chat", "Soldadura Básica", &session.Session{}))
	assert.False(t, ok)

	_, ok = m.Match(NewTurn("chat", "Soldadura Básica", &session.Session{
		PendingCourses: []string{"Soldadura Básica"},
	}))
	assert.False(t, ok)
}

func TestPendingChoiceIgnoresTitlesOutsidePending(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), soldaduraAvanzada(), carpinteriaBanco())
	m := NewPendingChoiceMatcher(cat)
	sess := &session.Session{
		PendingCourses: []string{"Soldadura Avanzada", "Soldadura Básica"},
	}

	// Naming a course that is not part of the open choice re-asks
	// instead of switching topic.
	reply, ok := m.Match(NewTurn("chat", "carpinteria de banco", sess))
	require.True(t, ok)
	assert.Contains(t, reply, "Mencionaste varios cursos")
	assert.Equal(t, []string{"Soldadura Avanzada", "Soldadura Básica"}, sess.PendingCourses)
}

func TestTopicFAQClassification(t *testing.T) {
	cat := testCatalog(soldaduraBasica(), carpinteriaBanco())
	reg := NewDefaultRegistry(cat)

	tests := []struct {
		name     string
		text     string
		contains string
	}{
		{"requirements", "puedo anotarme si tengo 16", "mayores de 18 años"},
		{"site", "donde se dicta", "Este curso se dicta en: Palpalá."},
		{"enrollment", "pasame el formulario", "https://forms.test/soldadura-basica"},
		{"start date", "cuando empieza", "arranca el 10 de julio"},
		{"status", "la inscripcion sigue abierta?", "inscripción abierta"},
		{"cost", "cuanto cuesta", "totalmente gratuito"},
		{"certificate", "entregan certificado?", "certificado oficial"},
		{"duration", "cuanto dura el curso", "entre 1 y 3 meses"},
		{"schedule", "en que turno se cursa", "turnos mañana o tarde"},
		{"contents", "que temario tiene", "teoría y práctica sobre soldadura básica"},
		{"job prospects", "tiene salida laboral?", "oportunidades laborales"},
		{"materials", "que materiales necesito llevar", "herramientas del aula"},
		{"general doubt", "tengo una duda", "¿Qué parte no te quedó clara"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := &session.Session{PendingCourses: []string{"Soldadura Básica"}}
			reply, name, ok := reg.Dispatch(NewTurn("chat", tt.text, sess))
			require.True(t, ok)
			assert.Equal(t, "topic_faq", name)
			assert.Contains(t, reply, tt.contains)
		})
	}
}

func TestTopicFAQUnclassifiableDeclines(t *testing.T) {
	m := NewTopicFAQMatcher(testCatalog(soldaduraBasica()))
	sess := &session.Session{PendingCourses: []string{"Soldadura Básica"}}

	_, ok := m.Match(NewTurn("chat", "contame un chiste", sess))
	assert.False(t, ok)
}

func TestTopicFAQRequiresExactlyOnePending(t *testing.T) {
	m := NewTopicFAQMatcher(testCatalog(soldaduraBasica(), soldaduraAvanzada()))

	_, ok := m.Match(NewTurn("chat", "cuanto cuesta", &session.Session{}))
	assert.False(t, ok)

	_, ok = m.Match(NewTurn("chat", "cuanto cuesta", &session.Session{
		PendingCourses: []string{"Soldadura Avanzada", "Soldadura Básica"},
	}))
	assert.False(t, ok)
}

func TestStatusReplyPerState(t *testing.T) {
	tests := []struct {
		status   string
		contains string
	}{
		{catalog.StatusOpen, "inscripción abierta"},
		{catalog.StatusRunning, "ya está en marcha"},
		{catalog.StatusFinished, "ya finalizó"},
		{catalog.StatusUpcoming, "comenzar pronto"},
		{"estado_raro", "está en estado de estado raro"},
	}

	for _, tt := range tests {
		c := soldaduraBasica()
		c.Status = tt.status
		assert.Contains(t, statusReply(c), tt.contains)
	}
}
