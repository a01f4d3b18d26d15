package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"diseasenet/config"
	"diseasenet/models"
	"diseasenet/providers/kegg"
	"diseasenet/providers/pubchem"
	"diseasenet/providers/uniprot"
)

// testConfig liefert eine Engine-Konfiguration ohne Wartezeiten.
func testConfig() *config.Config {
	return &config.Config{
		OrganismCode:      "hsa",
		OrganismTaxID:     "9606",
		EnrichWorkers:     1,
		SuggestLimit:      5,
		KeggMaxAttempts:   2,
		EnrichMaxAttempts: 2,
	}
}

// testDB öffnet eine frische In-Memory-Datenbank mit migriertem Schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Disease{}, &models.Pathway{}, &models.DiseasePathway{},
		&models.Gene{}, &models.DiseaseGene{},
		&models.UniprotProtein{}, &models.GeneUniprotBridge{},
		&models.UniprotPdb{}, &models.UniprotInteraction{},
		&models.Compound{}, &models.GeneCompoundActivity{},
	))
	return db
}

// fakePathwayRegistry ist ein konfigurierbares Pathway-Register für Tests.
// Calls zählt alle Aufrufe über alle Operationen.
type fakePathwayRegistry struct {
	Calls       atomic.Int64
	FindFunc    func(name string) (string, error)
	ListFunc    func() ([]kegg.DiseaseEntry, error)
	LinkFunc    func(diseaseID string) ([]string, error)
	PathwayFunc func(pathwayID string) ([]kegg.GeneNode, error)
}

func (f *fakePathwayRegistry) FindDiseaseID(ctx context.Context, name string) (string, error) {
	f.Calls.Add(1)
	if f.FindFunc == nil {
		return "", nil
	}
	return f.FindFunc(name)
}

func (f *fakePathwayRegistry) ListDiseases(ctx context.Context) ([]kegg.DiseaseEntry, error) {
	f.Calls.Add(1)
	if f.ListFunc == nil {
		return nil, nil
	}
	return f.ListFunc()
}

func (f *fakePathwayRegistry) LinkPathways(ctx context.Context, diseaseID string) ([]string, error) {
	f.Calls.Add(1)
	if f.LinkFunc == nil {
		return nil, nil
	}
	return f.LinkFunc(diseaseID)
}

func (f *fakePathwayRegistry) PathwayGenes(ctx context.Context, pathwayID string) ([]kegg.GeneNode, error) {
	f.Calls.Add(1)
	if f.PathwayFunc == nil {
		return nil, nil
	}
	return f.PathwayFunc(pathwayID)
}

// fakeProteinRegistry ist ein konfigurierbares Protein-Register für Tests.
type fakeProteinRegistry struct {
	Calls         atomic.Int64
	SearchFunc    func(symbol string) (string, string, error)
	ReceptorsFunc func(symbol string) ([]string, error)
	DetailFunc    func(accession string) (*uniprot.ProteinDetail, error)
}

func (f *fakeProteinRegistry) SearchGene(ctx context.Context, symbol string) (string, string, error) {
	f.Calls.Add(1)
	if f.SearchFunc == nil {
		return "", "", nil
	}
	return f.SearchFunc(symbol)
}

func (f *fakeProteinRegistry) SearchReceptors(ctx context.Context, symbol string) ([]string, error) {
	f.Calls.Add(1)
	if f.ReceptorsFunc == nil {
		return nil, nil
	}
	return f.ReceptorsFunc(symbol)
}

func (f *fakeProteinRegistry) ProteinDetail(ctx context.Context, accession string) (*uniprot.ProteinDetail, error) {
	f.Calls.Add(1)
	if f.DetailFunc == nil {
		return nil, nil
	}
	return f.DetailFunc(accession)
}

// fakeBioactivityRegistry ist ein konfigurierbares Bioactivity-Register für
// Tests.
type fakeBioactivityRegistry struct {
	Calls       atomic.Int64
	GeneIDFunc  func(symbol string) (string, error)
	LigandsFunc func(geneID string) ([]pubchem.Bioactivity, error)
	NameFunc    func(cid string) (string, error)
}

func (f *fakeBioactivityRegistry) GeneID(ctx context.Context, symbol string) (string, error) {
	f.Calls.Add(1)
	if f.GeneIDFunc == nil {
		return "", nil
	}
	return f.GeneIDFunc(symbol)
}

func (f *fakeBioactivityRegistry) ActiveLigands(ctx context.Context, geneID string) ([]pubchem.Bioactivity, error) {
	f.Calls.Add(1)
	if f.LigandsFunc == nil {
		return nil, nil
	}
	return f.LigandsFunc(geneID)
}

func (f *fakeBioactivityRegistry) CompoundName(ctx context.Context, cid string) (string, error) {
	f.Calls.Add(1)
	if f.NameFunc == nil {
		return "Compound_" + cid, nil
	}
	return f.NameFunc(cid)
}
