package services

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"diseasenet/config"
	"diseasenet/models"
)

// Höchstens so viele Activity-Zeilen werden je Gen persistiert.
const maxPersistedActivities = 10

// Spaltenbreite der natürlichen Schlüssel; längere Werte werden gekürzt.
const keyMaxLen = 45

// CacheService ist die Cache-/Persistenzschicht über dem relationalen
// Store. LoadCached rekonstruiert Ergebnisse, die von einer frischen
// Anreicherung strukturell nicht unterscheidbar sind; Persist schreibt
// monoton anreichernd und idempotent.
type CacheService struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewCacheService erstellt einen neuen CacheService.
func NewCacheService(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *CacheService {
	return &CacheService{Config: cfg, DB: db, Logger: logger}
}

// LoadCached sucht eine Krankheit über den exakten Anzeigenamen und baut die
// vollständige Ergebnistabelle aus den persistierten Zeilen wieder auf.
// Eine Krankheit ohne Gene gilt als Cache-Miss, damit ein früher
// fehlgeschlagener Lauf wiederholt statt wiedergegeben wird.
func (s *CacheService) LoadCached(diseaseName string) ([]*models.GeneRecord, bool) {
	log := s.Logger.With(zap.String("disease", diseaseName))

	var disease models.Disease
	if err := s.DB.Where("disease_name = ?", diseaseName).First(&disease).Error; err != nil {
		return nil, false
	}

	var links []models.DiseaseGene
	if err := s.DB.Where("kegg_disease_id = ?", disease.KeggDiseaseID).Find(&links).Error; err != nil || len(links) == 0 {
		return nil, false
	}

	records := make([]*models.GeneRecord, 0, len(links))
	for _, link := range links {
		var gene models.Gene
		if err := s.DB.First(&gene, "ncbi_gene_id = ?", link.NCBIGeneID).Error; err != nil {
			log.Warn("Gen-Zeile fehlt im Cache", zap.String("ncbi_gene_id", link.NCBIGeneID), zap.Error(err))
			continue
		}
		records = append(records, s.reconstructRecord(&gene))
	}

	if len(records) == 0 {
		return nil, false
	}
	log.Info("Ergebnis aus Cache geladen", zap.Int("records", len(records)))
	return records, true
}

// reconstructRecord baut die Ergebniszeile eines Gens aus den Joins wieder
// auf, mit denselben Sentinel-Konventionen wie die frische Anreicherung.
func (s *CacheService) reconstructRecord(gene *models.Gene) *models.GeneRecord {
	record := &models.GeneRecord{
		GeneName:       gene.GeneSymbol,
		GeneID:         gene.NCBIGeneID,
		KeggGeneID:     gene.KeggGeneID,
		UniprotID:      models.NotAvailable,
		ProteinName:    models.NoProteinName,
		FunctionalRole: models.NoFunctionalRole,
		PDBIDs:         models.NoPDBIDs,
		Receptors:      models.NoReceptors,
		LigandsStruct:  []models.Ligand{},
	}

	var bridge models.GeneUniprotBridge
	if err := s.DB.First(&bridge, "ncbi_gene_id = ?", gene.NCBIGeneID).Error; err == nil {
		record.UniprotID = bridge.UniprotID

		var protein models.UniprotProtein
		if err := s.DB.First(&protein, "uniprot_id = ?", bridge.UniprotID).Error; err == nil {
			if protein.ProteinName != "" {
				record.ProteinName = protein.ProteinName
			}
			if protein.FunctionalRole != "" {
				record.FunctionalRole = protein.FunctionalRole
			}
		}

		// Der persistierte Rang stellt die Reihenfolge der Anreicherung
		// wieder her (Strukturen: X-ray zuerst, dann Auflösung).
		var pdbs []models.UniprotPdb
		if err := s.DB.Where("uniprot_id = ?", bridge.UniprotID).Order("rank asc").Find(&pdbs).Error; err == nil && len(pdbs) > 0 {
			ids := make([]string, 0, len(pdbs))
			for _, pdb := range pdbs {
				ids = append(ids, pdb.PdbID)
			}
			record.PDBIDs = strings.Join(ids, ", ")
		}

		var interactions []models.UniprotInteraction
		if err := s.DB.Where("uniprot_id = ?", bridge.UniprotID).Order("rank asc").Find(&interactions).Error; err == nil && len(interactions) > 0 {
			names := make([]string, 0, len(interactions))
			for _, interaction := range interactions {
				names = append(names, interaction.PartnerName)
			}
			record.ReceptorsList = names
			record.Receptors = strings.Join(names, ", ")
		}
	}

	var activities []models.GeneCompoundActivity
	err := s.DB.Where("ncbi_gene_id = ?", gene.NCBIGeneID).
		Order("potency_um asc").
		Limit(topLigands).
		Find(&activities).Error
	if err == nil && len(activities) > 0 {
		var parts []string
		for _, activity := range activities {
			name := models.FallbackCompoundName(activity.CID)
			var compound models.Compound
			if err := s.DB.First(&compound, "cid = ?", activity.CID).Error; err == nil && compound.PreferredName != "" {
				name = compound.PreferredName
			}
			parts = append(parts, ligandDisplay(name, activity.PotencyUM))
			record.LigandsStruct = append(record.LigandsStruct, models.Ligand{
				CID:       activity.CID,
				Name:      name,
				PotencyUM: activity.PotencyUM,
			})
		}
		record.Ligands = strings.Join(parts, "; ")
	} else {
		record.Ligands = models.NoLigandData
	}

	return record
}

// Persist schreibt das Ergebnis eines Laufs in einer Transaktion. Gene ohne
// brauchbare numerische ID werden übersprungen; bestehende echte Werte
// werden nie durch Sentinels überschrieben. Ein Fehlschlag rollt den
// gesamten Batch zurück und wird nur geloggt.
func (s *CacheService) Persist(diseaseName, keggDiseaseID string, pathwayIDs []string, records []*models.GeneRecord) error {
	log := s.Logger.With(zap.String("disease", diseaseName), zap.String("disease_id", keggDiseaseID))

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Disease: Anzeigename nur beim ersten Insert, nie überschreiben.
		var disease models.Disease
		if err := tx.First(&disease, "kegg_disease_id = ?", keggDiseaseID).Error; err != nil {
			disease = models.Disease{
				KeggDiseaseID: keggDiseaseID,
				DiseaseName:   truncate(diseaseName, keyMaxLen),
			}
			if err := tx.Create(&disease).Error; err != nil {
				return err
			}
		}

		for _, pathwayID := range pathwayIDs {
			pid := truncate(pathwayID, keyMaxLen)
			organism := ""
			if strings.Contains(pid, s.Config.OrganismCode) {
				organism = s.Config.OrganismCode
			}
			var pathway models.Pathway
			if err := tx.First(&pathway, "kegg_pathway_id = ?", pid).Error; err != nil {
				if err := tx.Create(&models.Pathway{KeggPathwayID: pid, OrganismCode: organism}).Error; err != nil {
					return err
				}
			}
			if err := firstOrCreate(tx, &models.DiseasePathway{
				KeggDiseaseID: keggDiseaseID,
				KeggPathwayID: pid,
			}, "kegg_disease_id = ? AND kegg_pathway_id = ?", keggDiseaseID, pid); err != nil {
				return err
			}
		}

		for _, record := range records {
			if err := s.persistRecord(tx, keggDiseaseID, record); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Error("Persistierung fehlgeschlagen, Batch zurückgerollt", zap.Error(err))
		return err
	}
	log.Info("Ergebnis persistiert", zap.Int("records", len(records)))
	return nil
}

// persistRecord schreibt die Zeilen eines einzelnen angereicherten Gens.
func (s *CacheService) persistRecord(tx *gorm.DB, keggDiseaseID string, record *models.GeneRecord) error {
	if !record.HasUsableGeneID() {
		// Solche Gene werden jeden Lauf neu angereichert, aber nie gecacht.
		return nil
	}
	geneID := truncate(record.GeneID, keyMaxLen)

	var gene models.Gene
	if err := tx.First(&gene, "ncbi_gene_id = ?", geneID).Error; err != nil {
		gene = models.Gene{
			NCBIGeneID: geneID,
			GeneSymbol: truncate(record.GeneName, keyMaxLen),
			KeggGeneID: truncate(record.KeggGeneID, keyMaxLen),
		}
		if err := tx.Create(&gene).Error; err != nil {
			return err
		}
	} else if gene.KeggGeneID == "" && record.KeggGeneID != "" {
		if err := tx.Model(&gene).Update("kegg_gene_id", truncate(record.KeggGeneID, keyMaxLen)).Error; err != nil {
			return err
		}
	}

	if err := firstOrCreate(tx, &models.DiseaseGene{
		KeggDiseaseID: keggDiseaseID,
		NCBIGeneID:    geneID,
	}, "kegg_disease_id = ? AND ncbi_gene_id = ?", keggDiseaseID, geneID); err != nil {
		return err
	}

	if record.HasUsableAccession() {
		if err := s.persistProtein(tx, geneID, record); err != nil {
			return err
		}
	}

	return s.persistLigands(tx, geneID, record)
}

// persistProtein schreibt Protein, Brücke, Strukturen und
// Interaktionspartner eines Records.
func (s *CacheService) persistProtein(tx *gorm.DB, geneID string, record *models.GeneRecord) error {
	accession := truncate(record.UniprotID, keyMaxLen)

	var protein models.UniprotProtein
	if err := tx.First(&protein, "uniprot_id = ?", accession).Error; err != nil {
		protein = models.UniprotProtein{
			UniprotID:      accession,
			ProteinName:    record.ProteinName,
			FunctionalRole: record.FunctionalRole,
		}
		if err := tx.Create(&protein).Error; err != nil {
			return err
		}
	} else {
		// Monoton anreichernd: echte Werte füllen Lücken, Sentinels
		// überschreiben nie einen echten Wert.
		updates := map[string]any{}
		if isRealValue(record.ProteinName, models.NoProteinName) && !isRealValue(protein.ProteinName, models.NoProteinName) {
			updates["protein_name"] = record.ProteinName
		}
		if isRealValue(record.FunctionalRole, models.NoFunctionalRole) && !isRealValue(protein.FunctionalRole, models.NoFunctionalRole) {
			updates["functional_role"] = record.FunctionalRole
		}
		if len(updates) > 0 {
			if err := tx.Model(&protein).Updates(updates).Error; err != nil {
				return err
			}
		}
	}

	if err := firstOrCreate(tx, &models.GeneUniprotBridge{
		NCBIGeneID: geneID,
		UniprotID:  accession,
	}, "ncbi_gene_id = ? AND uniprot_id = ?", geneID, accession); err != nil {
		return err
	}

	// Der Rang jeder Zeile folgt der Position in der Anreicherung, damit
	// LoadCached dieselbe Reihenfolge wiedergibt wie ein frischer Lauf.
	if isRealValue(record.PDBIDs, models.NoPDBIDs) {
		rank := 0
		for _, raw := range strings.Split(record.PDBIDs, ",") {
			pdbID := truncate(strings.TrimSpace(raw), keyMaxLen)
			if pdbID == "" {
				continue
			}
			rank++
			var row models.UniprotPdb
			if err := tx.First(&row, "uniprot_id = ? AND pdb_id = ?", accession, pdbID).Error; err != nil {
				row = models.UniprotPdb{UniprotID: accession, PdbID: pdbID, Rank: rank}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			} else if row.Rank != rank {
				if err := tx.Model(&row).Update("rank", rank).Error; err != nil {
					return err
				}
			}
		}
	}

	// Partnernamen können selbst Kommas enthalten, daher kommt die
	// strukturierte Liste vor dem Zerlegen des Anzeigestrings.
	partners := record.ReceptorsList
	if len(partners) == 0 && isRealValue(record.Receptors, models.NoReceptors) {
		for _, raw := range strings.Split(record.Receptors, ",") {
			if partner := strings.TrimSpace(raw); partner != "" {
				partners = append(partners, partner)
			}
		}
	}
	for rank, partner := range partners {
		var row models.UniprotInteraction
		if err := tx.First(&row, "uniprot_id = ? AND partner_name = ?", accession, partner).Error; err != nil {
			row = models.UniprotInteraction{UniprotID: accession, PartnerName: partner, Rank: rank + 1}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else if row.Rank != rank+1 {
			if err := tx.Model(&row).Update("rank", rank+1).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// persistLigands schreibt Compounds und Activity-Zeilen mit
// deterministischen IDs, damit wiederholte Läufe keine Duplikate erzeugen.
func (s *CacheService) persistLigands(tx *gorm.DB, geneID string, record *models.GeneRecord) error {
	ligands := record.LigandsStruct
	if len(ligands) > maxPersistedActivities {
		ligands = ligands[:maxPersistedActivities]
	}

	for rank, ligand := range ligands {
		if ligand.CID == "" {
			continue
		}
		cid := truncate(ligand.CID, keyMaxLen)

		var compound models.Compound
		if err := tx.First(&compound, "cid = ?", cid).Error; err != nil {
			if err := tx.Create(&models.Compound{CID: cid, PreferredName: ligand.Name}).Error; err != nil {
				return err
			}
		} else if isRealCompoundName(ligand.Name, ligand.CID) && !isRealCompoundName(compound.PreferredName, ligand.CID) {
			// Monoton anreichernd: der generierte Fallback-Name zählt wie
			// ein Leerwert und wird vom echten Titel ersetzt.
			if err := tx.Model(&compound).Update("preferred_name", ligand.Name).Error; err != nil {
				return err
			}
		}

		id := truncate(activityID(geneID, cid, rank+1), keyMaxLen)
		var activity models.GeneCompoundActivity
		if err := tx.First(&activity, "activity_id = ?", id).Error; err != nil {
			activity = models.GeneCompoundActivity{
				ActivityID: id,
				NCBIGeneID: geneID,
				CID:        cid,
				PotencyUM:  ligand.PotencyUM,
			}
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		} else if err := tx.Model(&activity).Updates(map[string]any{
			"cid":        cid,
			"potency_um": ligand.PotencyUM,
		}).Error; err != nil {
			return err
		}
	}
	return nil
}

// activityID leitet die deterministische Activity-ID aus Gen, Compound und
// Rang ab.
func activityID(geneID, cid string, rank int) string {
	return fmt.Sprintf("%s_%s_%d", geneID, cid, rank)
}

// firstOrCreate legt eine Zeile an, falls sie unter der Bedingung fehlt.
func firstOrCreate[T any](tx *gorm.DB, row *T, query string, args ...any) error {
	var existing T
	if err := tx.Where(query, args...).First(&existing).Error; err == nil {
		return nil
	}
	return tx.Create(row).Error
}

// isRealCompoundName meldet, ob ein Ligandenname ein echter Titel statt des
// generierten Fallbacks ist.
func isRealCompoundName(name, cid string) bool {
	return name != "" && name != models.FallbackCompoundName(cid)
}

// isRealValue meldet, ob ein Feld einen echten Wert statt eines Sentinels
// trägt.
func isRealValue(value string, sentinel string) bool {
	switch value {
	case "", sentinel, models.NotAvailable, models.ErrorMarker:
		return false
	}
	return true
}

// truncate kürzt auf die Spaltenbreite der natürlichen Schlüssel.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
