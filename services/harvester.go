package services

import (
	"context"

	"go.uber.org/zap"

	"diseasenet/config"
	"diseasenet/providers"
	"diseasenet/providers/kegg"
)

// GeneInput ist ein geerntetes Gen vor der Anreicherung: Symbol plus
// pathway-lokale Kennung.
type GeneInput struct {
	Symbol     string
	KeggGeneID string
}

// HarvesterService sammelt die Pathways einer Krankheit ein und extrahiert
// daraus die deduplizierte Genliste.
type HarvesterService struct {
	Config   *config.Config
	Logger   *zap.Logger
	Registry PathwayRegistry
	Retry    providers.RetryPolicy
}

// NewHarvesterService erstellt einen neuen HarvesterService.
func NewHarvesterService(cfg *config.Config, logger *zap.Logger, registry PathwayRegistry) *HarvesterService {
	return &HarvesterService{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,
		Retry:    keggRetryPolicy(cfg),
	}
}

// Harvest holt alle Pathways der Krankheit, extrahiert je Pathway die
// Gen-Knoten und dedupliziert über alle Pathways hinweg nach Symbol. Die
// Reihenfolge des ersten Auftretens bleibt erhalten.
func (s *HarvesterService) Harvest(ctx context.Context, diseaseID string) ([]GeneInput, []string) {
	log := s.Logger.With(zap.String("disease_id", diseaseID))

	pathwayIDs, ok := providers.Do(s.Logger, "link_pathways", s.Retry, providers.EmptySlice[string], func() ([]string, error) {
		return s.Registry.LinkPathways(ctx, diseaseID)
	})
	if !ok {
		log.Warn("Keine Pathways für Krankheit gefunden.")
		return nil, nil
	}

	rawCount := 0
	seen := make(map[string]struct{})
	var genes []GeneInput

	for _, pathwayID := range pathwayIDs {
		pid := pathwayID
		nodes, ok := providers.Do(s.Logger, "pathway_genes", s.Retry, providers.EmptySlice[kegg.GeneNode], func() ([]kegg.GeneNode, error) {
			return s.Registry.PathwayGenes(ctx, pid)
		})
		if !ok {
			continue
		}

		for _, node := range nodes {
			rawCount++
			if _, exists := seen[node.Symbol]; exists {
				continue
			}
			seen[node.Symbol] = struct{}{}
			genes = append(genes, GeneInput{Symbol: node.Symbol, KeggGeneID: node.KeggGeneID})
		}
	}

	log.Info("Harvesting abgeschlossen",
		zap.Int("pathways", len(pathwayIDs)),
		zap.Int("genes_raw", rawCount),
		zap.Int("genes_deduped", len(genes)))
	return genes, pathwayIDs
}
