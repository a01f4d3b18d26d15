package services

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"diseasenet/config"
	"diseasenet/models"
)

// TableService ist die Top-Level-Orchestrierung: Cache zuerst, sonst
// Auflösung, Harvesting und Anreicherung in Sequenz, danach Best-Effort-
// Persistierung.
type TableService struct {
	Config    *config.Config
	Logger    *zap.Logger
	Resolver  *ResolverService
	Harvester *HarvesterService
	Enricher  *EnrichService
	Cache     *CacheService
}

// NewTableService verdrahtet die Engine gegen die drei Register und den
// Cache-Store.
func NewTableService(cfg *config.Config, db *gorm.DB, logger *zap.Logger, pathways PathwayRegistry, proteins ProteinRegistry, bioactivity BioactivityRegistry) *TableService {
	return &TableService{
		Config:    cfg,
		Logger:    logger,
		Resolver:  NewResolverService(cfg, logger, pathways),
		Harvester: NewHarvesterService(cfg, logger, pathways),
		Enricher:  NewEnrichService(cfg, logger, proteins, bioactivity),
		Cache:     NewCacheService(cfg, db, logger),
	}
}

// BuildGeneTable baut die Gentabelle für einen Krankheitsnamen. Blockiert
// bis zum vollständigen Ergebnis oder Cache-Treffer. Ein leeres Ergebnis
// bedeutet: kein exakter Treffer; der Aufrufer kann SuggestDiseases nutzen.
func (s *TableService) BuildGeneTable(ctx context.Context, diseaseName string) ([]*models.GeneRecord, bool) {
	return s.BuildGeneTableWithProgress(ctx, diseaseName, nil)
}

// BuildGeneTableWithProgress baut die Gentabelle und ruft onProgress
// synchron für jedes fertige Gen auf. Cache-Treffer erzeugen weder
// Netzwerkaufrufe noch Progress-Events. Der zweite Rückgabewert meldet, ob
// das Ergebnis aus dem Cache kam.
func (s *TableService) BuildGeneTableWithProgress(ctx context.Context, diseaseName string, onProgress ProgressFunc) ([]*models.GeneRecord, bool) {
	log := s.Logger.With(zap.String("disease", diseaseName))
	log.Info("Baue Gentabelle.")

	if records, ok := s.Cache.LoadCached(diseaseName); ok {
		return records, true
	}

	records := s.buildFresh(ctx, diseaseName, onProgress)
	return records, false
}

// buildFresh führt die Pipeline ohne Cache-Lookup aus und persistiert das
// Ergebnis Best-Effort.
func (s *TableService) buildFresh(ctx context.Context, diseaseName string, onProgress ProgressFunc) []*models.GeneRecord {
	log := s.Logger.With(zap.String("disease", diseaseName))

	diseaseID := s.Resolver.ResolveDiseaseID(ctx, diseaseName)
	if diseaseID == "" {
		log.Warn("Kein exakter Treffer für Krankheit.")
		return nil
	}

	genes, pathwayIDs := s.Harvester.Harvest(ctx, diseaseID)
	if len(genes) == 0 {
		log.Warn("Keine Gene für Krankheit gefunden.")
		return nil
	}

	records := s.Enricher.EnrichAll(ctx, genes, onProgress)

	// Nach Abbruch keine Teilergebnisse in den Cache schreiben.
	if ctx.Err() == nil && len(records) > 0 {
		if err := s.Cache.Persist(diseaseName, diseaseID, pathwayIDs, records); err != nil {
			log.Warn("Cache nicht aktualisiert, Ergebnis wird trotzdem geliefert.", zap.Error(err))
		}
	}
	return records
}

// SuggestDiseases liefert die Fuzzy-Vorschläge des Resolvers.
func (s *TableService) SuggestDiseases(ctx context.Context, diseaseName string) []models.DiseaseSuggestion {
	return s.Resolver.SuggestDiseases(ctx, diseaseName)
}

// RecentDiseases listet die zuletzt persistierten Krankheiten.
func (s *TableService) RecentDiseases(limit int) ([]models.Disease, error) {
	var diseases []models.Disease
	err := s.Cache.DB.Order("created_at desc").Limit(limit).Find(&diseases).Error
	return diseases, err
}

// RefreshAll reichert alle bereits gecachten Krankheiten neu an, um den
// Cache warm zu halten. Läufe sind per Konstruktion idempotent.
func (s *TableService) RefreshAll(ctx context.Context) int {
	var diseases []models.Disease
	if err := s.Cache.DB.Find(&diseases).Error; err != nil {
		s.Logger.Error("Konnte Krankheiten nicht laden", zap.Error(err))
		return 0
	}

	refreshed := 0
	for _, disease := range diseases {
		if ctx.Err() != nil {
			break
		}
		records := s.buildFresh(ctx, disease.DiseaseName, nil)
		if len(records) > 0 {
			refreshed++
		}
	}
	s.Logger.Info("Cache-Refresh abgeschlossen", zap.Int("diseases", refreshed))
	return refreshed
}
