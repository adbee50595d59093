package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cursosjujuy/camila/internal/catalog"
	"github.com/cursosjujuy/camila/internal/textutil"
)

// faqTopic pairs a classifier pattern with its reply builder. Patterns
// run against the normalized text, so they are written accent-free;
// accented alternatives remain where the original wording had them.
type faqTopic struct {
	name    string
	pattern *regexp.Regexp
	reply   func(c catalog.Course) string
}

// faqTopics is evaluated in order; the first matching topic answers.
// Broad patterns near the top ("requisito", "sede") deliberately win
// over later ones.
var faqTopics = []faqTopic{
	{
		name:    "requirements",
		pattern: regexp.MustCompile(`(?i)tengo\s+\d+\s+años|puedo.*(anotar|inscribir)|edad.*(minima|requerida)?|requisito|requisitos|aceptan.*menores|necesito.*(secundario|experiencia|estudio)|hay.*limite.*edad`),
		reply: func(catalog.Course) string {
			return "Este curso es solo para personas mayores de 18 años. Si aún no cumplís la edad, podés consultar otros cursos más adelante o avisame y te ayudo a buscar una alternativa."
		},
	},
	{
		name:    "site",
		pattern: regexp.MustCompile(`(?i)donde.*(dicta|cursa|hace)|localidad|localidades|sede|lugar|direccion`),
		reply: func(c catalog.Course) string {
			if len(c.Localities) > 0 {
				return fmt.Sprintf("Este curso se dicta en: %s. Si vivís cerca de alguna de esas sedes, ¡ya podés inscribirte!", strings.Join(c.Localities, ", "))
			}
			return fmt.Sprintf("Todavía no se confirmó la sede para este curso. Pero es gratuito, presencial, y empieza el %s. Apenas se confirme el lugar, vas a poder inscribirte con el mismo formulario.", textutil.LongDate(c.StartDate))
		},
	},
	{
		name:    "enrollment",
		pattern: regexp.MustCompile(`(?i)inscribirme|anotarme|formulario|link|cómo me anoto|quiero anotarme|como hago para anotarme|como.*inscribo`),
		reply: func(c catalog.Course) string {
			return fmt.Sprintf("Podés inscribirte directamente desde este formulario: %s. Si tenés dudas sobre cómo completarlo, decime y te doy una mano.", c.FormURL)
		},
	},
	{
		name:    "start_date",
		pattern: regexp.MustCompile(`(?i)cuando.*(empieza|inicia)|fecha.*(inicio|comienzo)|ya.*(empezo|empezó)|arranca|comienza`),
		reply: func(c catalog.Course) string {
			return fmt.Sprintf("Este curso arranca el %s. Si te interesa, tratá de anotarte lo antes posible porque los cupos son limitados.", textutil.LongDate(c.StartDate))
		},
	},
	{
		name:    "status",
		pattern: regexp.MustCompile(`(?i)estado|esta.*(abierto|cerrado)|todavia.*inscribir|inscripcion.*abierta|queda.*tiempo`),
		reply:   statusReply,
	},
	{
		name:    "cost",
		pattern: regexp.MustCompile(`(?i)cuanto.*(cuesta|sale)|es.*(pago|gratuito)|hay.*que.*pagar|vale.*plata`),
		reply: func(catalog.Course) string {
			return "Sí, este curso es totalmente gratuito y presencial. ¡No hay que pagar nada para hacerlo!"
		},
	},
	{
		name:    "certificate",
		pattern: regexp.MustCompile(`(?i)certificado|certificacion|dan.*titulo|entregan.*diploma|validez.*oficial`),
		reply: func(catalog.Course) string {
			return "Por ahora no tenemos confirmación sobre si este curso entrega certificado oficial. En cuanto sepamos algo más, lo vamos a informar."
		},
	},
	{
		name:    "duration",
		pattern: regexp.MustCompile(`(?i)cuanto.*dura|duracion|cuantos.*dias|cuantas.*semanas`),
		reply: func(catalog.Course) string {
			return "La duración del curso puede variar según la planificación, pero en general duran entre 1 y 3 meses."
		},
	},
	{
		name:    "schedule",
		pattern: regexp.MustCompile(`(?i)horario|hora|turno|mañana|tarde|noche`),
		reply: func(catalog.Course) string {
			return "Los horarios dependen de la sede y del docente asignado. Por lo general hay turnos mañana o tarde. Si necesitás algo específico, avisame y lo consulto."
		},
	},
	{
		name:    "contents",
		pattern: regexp.MustCompile(`(?i)(que.*(enseñan|aprende|ve|dan|hace|hacen)|qué\s+se\s+hace|contenido|temario|temas)`),
		reply: func(c catalog.Course) string {
			if det := strings.TrimSpace(c.Description); det != "" {
				return det
			}
			return fmt.Sprintf("Este curso combina teoría y práctica sobre %s.", strings.ToLower(c.Title))
		},
	},
	{
		name:    "job_prospects",
		pattern: regexp.MustCompile(`(?i)salida.*laboral|sirve.*trabajo|ayuda.*conseguir.*empleo`),
		reply: func(catalog.Course) string {
			return "Este curso está orientado a brindar herramientas prácticas para mejorar tus oportunidades laborales. Muchos egresados consiguen empleo gracias a estas formaciones."
		},
	},
	{
		name:    "materials",
		pattern: regexp.MustCompile(`(?i)materiales|herramientas|necesito.*llevar|dan.*(herramientas|material)|hay.*que.*comprar`),
		reply: func(catalog.Course) string {
			return "No hace falta llevar materiales para empezar. En general se trabaja con herramientas del aula, pero si hay algo específico que llevar, te lo van a avisar antes del inicio."
		},
	},
	{
		name:    "general_doubt",
		pattern: regexp.MustCompile(`(?i)tengo.*duda|me.*explicas|no.*entiendo|me.*ayudas`),
		reply: func(c catalog.Course) string {
			return fmt.Sprintf("Claro, estoy para ayudarte. ¿Qué parte no te quedó clara o querés que te explique mejor sobre el curso %s?", c.Title)
		},
	},
}

// TopicFAQMatcher answers follow-up questions about the one course the
// conversation is focused on. It only applies with exactly one pending
// course; ambiguity belongs to PendingChoiceMatcher and anything it
// cannot classify goes to the fallback.
type TopicFAQMatcher struct {
	cat *catalog.Catalog
}

// NewTopicFAQMatcher creates the FAQ matcher.
func NewTopicFAQMatcher(cat *catalog.Catalog) *TopicFAQMatcher {
	return &TopicFAQMatcher{cat: cat}
}

// Name identifies the matcher in logs and metrics.
func (m *TopicFAQMatcher) Name() string { return "topic_faq" }

// Match classifies the question into a topic and answers from the
// focused course's data. Session state is read but never modified.
func (m *TopicFAQMatcher) Match(turn *Turn) (string, bool) {
	sess := turn.Session
	if len(sess.PendingCourses) != 1 {
		return "", false
	}
	c, ok := m.cat.FindByTitle(sess.PendingCourses[0])
	if !ok {
		return "", false
	}

	for _, topic := range faqTopics {
		if topic.pattern.MatchString(turn.Norm) {
			return textutil.StripTags(topic.reply(c)), true
		}
	}
	return "", false
}

// statusReply explains the course status in user terms.
func statusReply(c catalog.Course) string {
	switch c.Status {
	case catalog.StatusOpen:
		return "¡Buen momento! Este curso tiene la inscripción abierta, así que si te interesa, podés anotarte ya."
	case catalog.StatusRunning:
		return "Este curso ya está en marcha, pero si te interesa, podés anotarte y consultar si todavía aceptan nuevos participantes."
	case catalog.StatusFinished:
		return "Este curso ya finalizó. Es posible que vuelva a dictarse más adelante. Si querés, te puedo avisar si se abre una nueva edición."
	case catalog.StatusUpcoming:
		return "Este curso está programado para comenzar pronto. Aún no abrió la inscripción, pero podés estar atento/a o pedirme que te avise."
	default:
		return fmt.Sprintf("Este curso está en estado de %s.", textutil.HumanStatus(c.Status))
	}
}
