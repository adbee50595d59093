package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmphasis(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Strong", "El curso <strong>Soldadura Básica</strong> es gratuito", "El curso *Soldadura Básica* es gratuito"},
		{"Bold tag", "curso <b>destacado</b>", "curso *destacado*"},
		{"Emphasis", "modalidad <em>presencial</em>", "modalidad _presencial_"},
		{"Italic tag", "es <i>gratuito</i>", "es _gratuito_"},
		{"Italic content kept between markers", "curso <em>presencial</em> y <em>gratuito</em> en Palpalá", "curso _presencial_ y _gratuito_ en Palpalá"},
		{"Case insensitive", "<STRONG>Título</STRONG>", "*Título*"},
		{"Plain text untouched", "sin etiquetas", "sin etiquetas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Render(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderLinks(t *testing.T) {
	t.Run("anchor becomes plain form line", func(t *testing.T) {
		got, url := Render(`Inscribite acá: <a href="https://forms.test/s">Formulario de inscripción</a>`)
		assert.Equal(t, "Inscribite acá: Formulario de inscripción: https://forms.test/s", got)
		assert.Equal(t, "https://forms.test/s", url)
	})

	t.Run("markdown form link becomes plain form line", func(t *testing.T) {
		got, url := Render(`[Formulario de inscripción](https://forms.test/s)`)
		assert.Equal(t, "Formulario de inscripción: https://forms.test/s", got)
		assert.Equal(t, "https://forms.test/s", url)
	})

	t.Run("non form markdown link is left alone", func(t *testing.T) {
		got, _ := Render(`[otra cosa](https://example.test/x)`)
		assert.Equal(t, "[otra cosa](https://example.test/x)", got)
	})
}

func TestRenderStripsResidualTags(t *testing.T) {
	got, _ := Render("hola <span>mundo</span><br/>")
	assert.Equal(t, "hola mundo", got)
}

func TestRenderDedupesFormLines(t *testing.T) {
	t.Run("exact duplicate dropped", func(t *testing.T) {
		in := "El curso es gratuito.\nFormulario de inscripción: https://forms.test/s\nFormulario de inscripción: https://forms.test/s"
		got, _ := Render(in)
		assert.Equal(t, "El curso es gratuito. Formulario de inscripción: https://forms.test/s", got)
	})

	t.Run("case and trailing period insensitive", func(t *testing.T) {
		in := "Formulario de inscripción: https://forms.test/s\nFORMULARIO DE INSCRIPCIÓN: https://forms.test/s."
		got, _ := Render(in)
		assert.Equal(t, "Formulario de inscripción: https://forms.test/s", got)
	})

	t.Run("different URLs both kept", func(t *testing.T) {
		in := "Formulario de inscripción: https://forms.test/a\nFormulario de inscripción: https://forms.test/b"
		got, _ := Render(in)
		assert.Equal(t, "Formulario de inscripción: https://forms.test/a Formulario de inscripción: https://forms.test/b", got)
	})
}

func TestRenderJoinsIntoSingleParagraph(t *testing.T) {
	got, _ := Render("línea uno\nlínea dos\r\nlínea tres")
	assert.Equal(t, "línea uno línea dos línea tres", got)
}

func TestRenderURLCapture(t *testing.T) {
	t.Run("first URL wins", func(t *testing.T) {
		_, url := Render("mirá https://a.test/1 y https://b.test/2")
		assert.Equal(t, "https://a.test/1", url)
	})

	t.Run("no URL", func(t *testing.T) {
		_, url := Render("sin enlaces por acá")
		assert.Empty(t, url)
	})
}

func TestRenderWorkedReply(t *testing.T) {
	in := `El curso <strong>Curso X</strong> inicia el 2 de julio.
<a href="https://f.test/x">Formulario de inscripción</a>
Formulario de inscripción: https://f.test/x`
	got, url := Render(in)
	assert.Equal(t, "El curso *Curso X* inicia el 2 de julio. Formulario de inscripción: https://f.test/x", got)
	assert.Equal(t, "https://f.test/x", url)
}
