package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"diseasenet/config"
	"diseasenet/models"
	"diseasenet/providers"
	"diseasenet/providers/pubchem"
	"diseasenet/providers/uniprot"
)

// Pro Gen werden höchstens so viele Liganden behalten (die potentesten).
const topLigands = 5

// ProgressFunc wird synchron für jedes fertig angereicherte Gen aufgerufen.
type ProgressFunc func(completed, total int, geneSymbol string)

// EnrichService reichert Gene parallel über Protein- und
// Bioactivity-Register an.
type EnrichService struct {
	Config      *config.Config
	Logger      *zap.Logger
	Proteins    ProteinRegistry
	Bioactivity BioactivityRegistry
	Retry       providers.RetryPolicy
	Workers     int
}

// NewEnrichService erstellt einen neuen EnrichService.
func NewEnrichService(cfg *config.Config, logger *zap.Logger, proteins ProteinRegistry, bioactivity BioactivityRegistry) *EnrichService {
	return &EnrichService{
		Config:      cfg,
		Logger:      logger,
		Proteins:    proteins,
		Bioactivity: bioactivity,
		Retry:       enrichRetryPolicy(cfg),
		Workers:     cfg.EnrichWorkers,
	}
}

// EnrichAll verarbeitet die Genliste mit einem begrenzten Worker-Pool. Jeder
// Worker bearbeitet ein Gen vollständig, bevor er das nächste nimmt. Die
// Ergebnisse kommen in Fertigstellungsreihenfolge zurück, nicht in
// Eingabereihenfolge; je Gen wird genau ein Progress-Event emittiert.
func (s *EnrichService) EnrichAll(ctx context.Context, genes []GeneInput, onProgress ProgressFunc) []*models.GeneRecord {
	total := len(genes)
	if total == 0 {
		return nil
	}

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	s.Logger.Info("Starte Anreicherung", zap.Int("genes", total), zap.Int("workers", workers))

	jobs := make(chan GeneInput)
	results := make(chan *models.GeneRecord)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for gene := range jobs {
				record := s.enrichIsolated(ctx, gene.Symbol)
				// Pathway-native Kennung kommt aus dem Harvester-Input,
				// nie aus einem Register.
				record.KeggGeneID = gene.KeggGeneID
				select {
				case results <- record:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, gene := range genes {
			select {
			case jobs <- gene:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var records []*models.GeneRecord
	completed := 0
	for record := range results {
		completed++
		records = append(records, record)
		if onProgress != nil {
			onProgress(completed, total, record.GeneName)
		}
	}

	s.Logger.Info("Anreicherung abgeschlossen", zap.Int("records", len(records)))
	return records
}

// enrichIsolated fängt Panics eines einzelnen Gens ab und wandelt sie in
// einen reinen Fehler-Record um; ein Gen bricht nie den Batch ab.
func (s *EnrichService) enrichIsolated(ctx context.Context, symbol string) (record *models.GeneRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("Anreicherung eines Gens abgebrochen",
				zap.String("symbol", symbol), zap.Any("panic", r))
			record = errorRecord(symbol)
		}
	}()
	return s.EnrichGene(ctx, symbol)
}

// EnrichGene führt die vollständige Anreicherung für ein Gensymbol aus.
// Jedes Textfeld des Ergebnisses trägt einen echten Wert oder einen
// Sentinel, nie einen Leerwert.
func (s *EnrichService) EnrichGene(ctx context.Context, symbol string) *models.GeneRecord {
	log := s.Logger.With(zap.String("symbol", symbol))
	log.Info("Reichere Gen an.")

	record := &models.GeneRecord{GeneName: symbol, LigandsStruct: []models.Ligand{}}

	// 1. Identität: erster Treffer der organismus-beschränkten Suche.
	type geneHit struct{ name, accession string }
	hit, hitOK := providers.Do(log, "uniprot_search", s.Retry,
		func(h geneHit) bool { return h.accession == "" },
		func() (geneHit, error) {
			name, accession, err := s.Proteins.SearchGene(ctx, symbol)
			return geneHit{name: name, accession: accession}, err
		})
	record.UniprotID = models.NotAvailable
	if hitOK {
		record.UniprotID = hit.accession
	}

	// 2. Rezeptor-Scan über alle Treffer derselben Suche. Der abweichende
	// Konsistenz-Scope (erster Treffer vs. alle Treffer) ist beabsichtigt
	// und nach außen sichtbar.
	receptors, _ := providers.Do(log, "uniprot_receptors", s.Retry, providers.EmptySlice[string], func() ([]string, error) {
		return s.Proteins.SearchReceptors(ctx, symbol)
	})
	record.ReceptorsList = receptors
	if len(receptors) > 0 {
		record.Receptors = strings.Join(receptors, ", ")
	} else {
		record.Receptors = models.NoReceptors
	}

	// 3./4. Numerische Gen-ID und aktive Liganden. Eine fehlende Gen-ID ist
	// kein Fehler, nur ein Sentinel.
	geneID, _ := providers.Do(log, "pubchem_gene_id", s.Retry, providers.EmptyString, func() (string, error) {
		return s.Bioactivity.GeneID(ctx, symbol)
	})

	var ligandParts []string
	if geneID == "" {
		record.GeneID = models.NotAvailable
		ligandParts = []string{models.NoGeneIDFound}
	} else {
		record.GeneID = geneID
		ligandParts = s.collectLigands(ctx, log, geneID, record)
	}
	record.Ligands = strings.Join(ligandParts, "; ")

	// 5. Protein-Detail nur mit echter Accession.
	record.ProteinName = models.NoProteinName
	record.FunctionalRole = models.NoFunctionalRole
	record.PDBIDs = models.NoPDBIDs
	if record.HasUsableAccession() {
		detail, detailOK := providers.Do(log, "uniprot_detail", s.Retry,
			func(d *uniprot.ProteinDetail) bool { return d == nil },
			func() (*uniprot.ProteinDetail, error) {
				return s.Proteins.ProteinDetail(ctx, record.UniprotID)
			})
		if detailOK {
			if detail.Name != "" {
				record.ProteinName = detail.Name
			}
			if detail.FunctionalRole != "" {
				record.FunctionalRole = detail.FunctionalRole
			}
			if len(detail.PDBIDs) > 0 {
				record.PDBIDs = strings.Join(detail.PDBIDs, ", ")
			}
		}
	}

	log.Info("Gen erfolgreich angereichert.")
	return record
}

// collectLigands holt die Activity-Tabelle, behält die potentesten Liganden
// aufsteigend nach Potenz (Gleichstände in Zeilenreihenfolge) und löst deren
// Anzeigenamen auf.
func (s *EnrichService) collectLigands(ctx context.Context, log *zap.Logger, geneID string, record *models.GeneRecord) []string {
	activities, _ := providers.Do(log, "pubchem_activities", s.Retry, providers.EmptySlice[pubchem.Bioactivity], func() ([]pubchem.Bioactivity, error) {
		return s.Bioactivity.ActiveLigands(ctx, geneID)
	})
	if len(activities) == 0 {
		log.Warn("Keine Bioactivity-Daten gefunden", zap.String("gene_id", geneID))
		return []string{models.NoLigandData}
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].PotencyUM < activities[j].PotencyUM
	})
	if len(activities) > topLigands {
		activities = activities[:topLigands]
	}

	var parts []string
	for _, activity := range activities {
		cid := activity.CID
		name, ok := providers.Do(log, "pubchem_compound_name", s.Retry, providers.EmptyString, func() (string, error) {
			return s.Bioactivity.CompoundName(ctx, cid)
		})
		if !ok {
			name = models.FallbackCompoundName(cid)
		}
		parts = append(parts, ligandDisplay(name, activity.PotencyUM))
		record.LigandsStruct = append(record.LigandsStruct, models.Ligand{
			CID:       activity.CID,
			Name:      name,
			PotencyUM: activity.PotencyUM,
		})
	}
	return parts
}

// ligandDisplay formatiert die Anzeige eines Liganden. Cache-Rekonstruktion
// und frische Anreicherung müssen denselben String erzeugen.
func ligandDisplay(name string, potencyUM float64) string {
	return fmt.Sprintf("%s (%g uM)", name, potencyUM)
}

// errorRecord baut den reinen Sentinel-Record für ein fehlgeschlagenes Gen.
func errorRecord(symbol string) *models.GeneRecord {
	return &models.GeneRecord{
		GeneName:       symbol,
		GeneID:         models.ErrorMarker,
		UniprotID:      models.ErrorMarker,
		ProteinName:    models.ErrorProcessingGene,
		PDBIDs:         models.ErrorMarker,
		Receptors:      models.ErrorMarker,
		FunctionalRole: models.ErrorMarker,
		Ligands:        models.ErrorMarker,
		LigandsStruct:  []models.Ligand{},
	}
}
