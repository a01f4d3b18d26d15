package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diseasenet/models"
	"diseasenet/providers/pubchem"
	"diseasenet/providers/uniprot"
)

// vollbestücktes Registry-Paar für den Normalfall
func happyRegistries() (*fakeProteinRegistry, *fakeBioactivityRegistry) {
	proteins := &fakeProteinRegistry{
		SearchFunc: func(symbol string) (string, string, error) {
			return symbol, "P06213", nil
		},
		ReceptorsFunc: func(symbol string) ([]string, error) {
			return []string{"Insulin receptor", "Insulin receptor-related protein"}, nil
		},
		DetailFunc: func(accession string) (*uniprot.ProteinDetail, error) {
			return &uniprot.ProteinDetail{
				Name:           "Insulin receptor",
				FunctionalRole: "Receptor tyrosine kinase.",
				PDBIDs:         []string{"1IR3", "4XLV", "3LOH"},
			}, nil
		},
	}
	bioactivity := &fakeBioactivityRegistry{
		GeneIDFunc: func(symbol string) (string, error) { return "3643", nil },
		LigandsFunc: func(geneID string) ([]pubchem.Bioactivity, error) {
			return []pubchem.Bioactivity{{CID: "2244", PotencyUM: 4.2}}, nil
		},
		NameFunc: func(cid string) (string, error) { return "Aspirin", nil },
	}
	return proteins, bioactivity
}

func TestEnrichGene_AlleFelderBestueckt(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	enricher := NewEnrichService(testConfig(), zap.NewNop(), proteins, bioactivity)

	record := enricher.EnrichGene(context.Background(), "INSR")
	assert.Equal(t, "INSR", record.GeneName)
	assert.Equal(t, "3643", record.GeneID)
	assert.Equal(t, "P06213", record.UniprotID)
	assert.Equal(t, "Insulin receptor", record.ProteinName)
	assert.Equal(t, "Receptor tyrosine kinase.", record.FunctionalRole)
	assert.Equal(t, "1IR3, 4XLV, 3LOH", record.PDBIDs)
	assert.Equal(t, "Insulin receptor, Insulin receptor-related protein", record.Receptors)
	assert.Equal(t, "Aspirin (4.2 uM)", record.Ligands)
	require.Len(t, record.LigandsStruct, 1)
	assert.Equal(t, models.Ligand{CID: "2244", Name: "Aspirin", PotencyUM: 4.2}, record.LigandsStruct[0])
}

func TestEnrichGene_AllesLeerLiefertSentinels(t *testing.T) {
	cfg := testConfig()
	cfg.EnrichMaxAttempts = 1
	enricher := NewEnrichService(cfg, zap.NewNop(), &fakeProteinRegistry{}, &fakeBioactivityRegistry{})

	record := enricher.EnrichGene(context.Background(), "UNBEKANNT")
	assert.Equal(t, models.NotAvailable, record.GeneID)
	assert.Equal(t, models.NotAvailable, record.UniprotID)
	assert.Equal(t, models.NoProteinName, record.ProteinName)
	assert.Equal(t, models.NoFunctionalRole, record.FunctionalRole)
	assert.Equal(t, models.NoPDBIDs, record.PDBIDs)
	assert.Equal(t, models.NoReceptors, record.Receptors)
	assert.Equal(t, models.NoGeneIDFound, record.Ligands)
	assert.Empty(t, record.LigandsStruct)
}

func TestEnrichGene_KeineLigandenDaten(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	bioactivity.LigandsFunc = func(geneID string) ([]pubchem.Bioactivity, error) { return nil, nil }
	cfg := testConfig()
	cfg.EnrichMaxAttempts = 1
	enricher := NewEnrichService(cfg, zap.NewNop(), proteins, bioactivity)

	record := enricher.EnrichGene(context.Background(), "INSR")
	assert.Equal(t, "3643", record.GeneID)
	assert.Equal(t, models.NoLigandData, record.Ligands)
}

func TestEnrichGene_Top5AufsteigendNachPotenz(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	bioactivity.LigandsFunc = func(geneID string) ([]pubchem.Bioactivity, error) {
		return []pubchem.Bioactivity{
			{CID: "a", PotencyUM: 12.0},
			{CID: "b", PotencyUM: 0.5},
			{CID: "c", PotencyUM: 3.3},
			{CID: "d", PotencyUM: 0.5},
			{CID: "e", PotencyUM: 100.0},
			{CID: "f", PotencyUM: 50.0},
		}, nil
	}
	bioactivity.NameFunc = func(cid string) (string, error) { return "L" + cid, nil }
	enricher := NewEnrichService(testConfig(), zap.NewNop(), proteins, bioactivity)

	record := enricher.EnrichGene(context.Background(), "INSR")
	// Aufsteigend nach Potenz, Gleichstand b vor d in Zeilenreihenfolge,
	// höchstens fünf Liganden.
	require.Len(t, record.LigandsStruct, 5)
	var cids []string
	for _, ligand := range record.LigandsStruct {
		cids = append(cids, ligand.CID)
	}
	assert.Equal(t, []string{"b", "d", "c", "a", "f"}, cids)
	assert.Equal(t, "Lb (0.5 uM); Ld (0.5 uM); Lc (3.3 uM); La (12 uM); Lf (50 uM)", record.Ligands)
}

func TestEnrichGene_CompoundNameFallback(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	bioactivity.NameFunc = func(cid string) (string, error) { return "", nil }
	enricher := NewEnrichService(testConfig(), zap.NewNop(), proteins, bioactivity)

	record := enricher.EnrichGene(context.Background(), "INSR")
	assert.Equal(t, "Compound_2244 (4.2 uM)", record.Ligands)
}

func TestEnrichGene_CompoundNameWiederholtNachFehler(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	calls := 0
	bioactivity.NameFunc = func(cid string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("registry kurz weg")
		}
		return "Aspirin", nil
	}
	enricher := NewEnrichService(testConfig(), zap.NewNop(), proteins, bioactivity)

	// Ein transienter Fehler endet nach Wiederholung im echten Namen, nicht
	// im generierten Fallback.
	record := enricher.EnrichGene(context.Background(), "INSR")
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Aspirin (4.2 uM)", record.Ligands)
}

func TestEnrichAll_ProgressIstMonoton(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	cfg := testConfig()
	cfg.EnrichWorkers = 3
	enricher := NewEnrichService(cfg, zap.NewNop(), proteins, bioactivity)

	genes := []GeneInput{
		{Symbol: "INSR"}, {Symbol: "PPARG"}, {Symbol: "AKT1"},
		{Symbol: "TNF"}, {Symbol: "IL6"},
	}

	var progress []int
	records := enricher.EnrichAll(context.Background(), genes, func(completed, total int, geneSymbol string) {
		assert.Equal(t, len(genes), total)
		assert.NotEmpty(t, geneSymbol)
		progress = append(progress, completed)
	})

	assert.Len(t, records, len(genes))
	require.Len(t, progress, len(genes))
	for i, completed := range progress {
		assert.Equal(t, i+1, completed)
	}
}

func TestEnrichAll_PanicBrichtNurDasEineGenAb(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	bioactivity.GeneIDFunc = func(symbol string) (string, error) {
		if symbol == "INSR" {
			panic("registry liefert unmöglichen Zustand")
		}
		return "5468", nil
	}
	enricher := NewEnrichService(testConfig(), zap.NewNop(), proteins, bioactivity)

	records := enricher.EnrichAll(context.Background(), []GeneInput{{Symbol: "INSR"}, {Symbol: "PPARG"}}, nil)
	require.Len(t, records, 2)

	byName := map[string]*models.GeneRecord{}
	for _, record := range records {
		byName[record.GeneName] = record
	}
	assert.Equal(t, models.ErrorMarker, byName["INSR"].UniprotID)
	assert.Equal(t, models.ErrorProcessingGene, byName["INSR"].ProteinName)
	assert.Equal(t, "5468", byName["PPARG"].GeneID)
	assert.Equal(t, "P06213", byName["PPARG"].UniprotID)
}

func TestEnrichAll_UebernimmtPathwayKennung(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	enricher := NewEnrichService(testConfig(), zap.NewNop(), proteins, bioactivity)

	records := enricher.EnrichAll(context.Background(), []GeneInput{{Symbol: "INSR", KeggGeneID: "hsa:3643"}}, nil)
	require.Len(t, records, 1)
	assert.Equal(t, "hsa:3643", records[0].KeggGeneID)
}

func TestEnrichAll_LeereEingabe(t *testing.T) {
	proteins, bioactivity := happyRegistries()
	enricher := NewEnrichService(testConfig(), zap.NewNop(), proteins, bioactivity)

	assert.Nil(t, enricher.EnrichAll(context.Background(), nil, nil))
}
