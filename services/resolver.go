package services

import (
	"context"
	"sort"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"diseasenet/config"
	"diseasenet/models"
	"diseasenet/providers"
	"diseasenet/providers/kegg"
)

// Vorschläge mit Token-Set-Score von 60 oder weniger werden verworfen.
const suggestScoreThreshold = 60

// ResolverService löst Freitext-Krankheitsnamen zu kanonischen IDs auf und
// liefert bei Fehlschlag Fuzzy-Vorschläge aus dem Katalog.
type ResolverService struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry PathwayRegistry
	Retry    providers.RetryPolicy
}

// NewResolverService erstellt einen neuen ResolverService mit der
// Retry-Policy des Pathway-Registers.
func NewResolverService(cfg *config.Config, logger *zap.Logger, registry PathwayRegistry) *ResolverService {
	return &ResolverService{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Retry:    keggRetryPolicy(cfg),
	}
}

// ResolveDiseaseID gibt die kanonische ID des ersten Suchtreffers zurück.
// Leerer String bedeutet: kein exakter Treffer.
func (s *ResolverService) ResolveDiseaseID(ctx context.Context, name string) string {
	id, _ := providers.Do(s.Logger, "find_disease", s.Retry, providers.EmptyString, func() (string, error) {
		return s.Registry.FindDiseaseID(ctx, name)
	})
	return id
}

// SuggestDiseases lädt den Krankheitskatalog und bewertet jeden Eintrag per
// Token-Set-Ratio gegen die Anfrage. Es bleiben höchstens SuggestLimit
// Einträge mit Score über dem Schwellwert, absteigend sortiert; Gleichstände
// behalten die Katalogreihenfolge.
func (s *ResolverService) SuggestDiseases(ctx context.Context, name string) []models.DiseaseSuggestion {
	log := s.Logger.With(zap.String("query", name))
	log.Info("Starte Fuzzy-Suche im Krankheitskatalog.")

	catalog, ok := providers.Do(s.Logger, "list_diseases", s.Retry, providers.EmptySlice[kegg.DiseaseEntry], func() ([]kegg.DiseaseEntry, error) {
		return s.Registry.ListDiseases(ctx)
	})
	if !ok {
		return nil
	}

	var suggestions []models.DiseaseSuggestion
	for _, entry := range catalog {
		score := fuzzy.TokenSetRatio(name, entry.Name)
		if score <= suggestScoreThreshold {
			continue
		}
		suggestions = append(suggestions, models.DiseaseSuggestion{
			Name:  entry.Name,
			ID:    entry.ID,
			Score: score,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	limit := s.Config.SuggestLimit
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	log.Info("Fuzzy-Suche abgeschlossen", zap.Int("suggestions", len(suggestions)))
	return suggestions
}

// keggRetryPolicy baut die Retry-Policy für das Pathway-Register.
func keggRetryPolicy(cfg *config.Config) providers.RetryPolicy {
	return providers.RetryPolicy{
		MaxAttempts: cfg.KeggMaxAttempts,
		Delay:       millis(cfg.KeggRetryDelayMillis),
	}
}

// enrichRetryPolicy baut die Retry-Policy für Protein- und
// Bioactivity-Register.
func enrichRetryPolicy(cfg *config.Config) providers.RetryPolicy {
	return providers.RetryPolicy{
		MaxAttempts: cfg.EnrichMaxAttempts,
		Delay:       millis(cfg.EnrichDelayMillis),
	}
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
