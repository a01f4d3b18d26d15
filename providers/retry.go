// Package providers bündelt die Registry-Clients und die Resilienz-Policy,
// die um jeden Upstream-Aufruf gelegt wird.
package providers

import (
	"time"

	"go.uber.org/zap"
)

// RetryPolicy beschreibt Wiederholungen mit fester Verzögerung.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do führt call aus und wiederholt bei Fehler oder leerem Ergebnis mit
// fester Verzögerung. Nach Erschöpfung der Versuche kommt der Nullwert und
// ok=false zurück; ein Fehler wird nie propagiert. Leere Ergebnisse sind
// damit das einzige Fehlersignal für den Aufrufer.
func Do[T any](log *zap.Logger, op string, p RetryPolicy, isEmpty func(T) bool, call func() (T, error)) (T, bool) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := call()
		if err == nil && !isEmpty(result) {
			return result, true
		}

		if attempt < attempts {
			if err != nil {
				log.Warn("Upstream-Aufruf fehlgeschlagen, wiederhole",
					zap.String("op", op), zap.Int("attempt", attempt), zap.Int("max_attempts", attempts), zap.Error(err))
			} else {
				log.Warn("Upstream-Aufruf lieferte leeres Ergebnis, wiederhole",
					zap.String("op", op), zap.Int("attempt", attempt), zap.Int("max_attempts", attempts))
			}
			time.Sleep(p.Delay)
			continue
		}

		if err != nil {
			log.Error("Upstream-Aufruf endgültig fehlgeschlagen",
				zap.String("op", op), zap.Int("attempts", attempts), zap.Error(err))
		}
	}
	return zero, false
}

// EmptySlice ist das isEmpty-Prädikat für Slices.
func EmptySlice[E any](s []E) bool {
	return len(s) == 0
}

// EmptyString ist das isEmpty-Prädikat für String-Ergebnisse.
func EmptyString(s string) bool {
	return s == ""
}
