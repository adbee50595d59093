package textutil

import (
	"fmt"
	"strings"
	"time"
)

// monthNames holds the Spanish month names, January first.
var monthNames = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// LongDate renders an ISO date (2025-07-02) as "2 de julio". The day
// carries no leading zero. Unparseable input comes back verbatim so a
// dirty catalog entry never breaks a reply.
func LongDate(iso string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d de %s", t.Day(), monthNames[t.Month()-1])
}

// HumanStatus turns a catalog status code like "inscripcion_abierta"
// into readable text ("inscripcion abierta").
func HumanStatus(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
