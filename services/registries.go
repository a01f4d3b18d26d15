// Package services enthält die Engine: Auflösung, Harvesting, Anreicherung,
// Cache und die Top-Level-Orchestrierung.
package services

import (
	"context"

	"diseasenet/providers/kegg"
	"diseasenet/providers/pubchem"
	"diseasenet/providers/uniprot"
)

// PathwayRegistry ist die vom Harvester und Resolver konsumierte Sicht auf
// das Pathway-Register.
type PathwayRegistry interface {
	FindDiseaseID(ctx context.Context, name string) (string, error)
	ListDiseases(ctx context.Context) ([]kegg.DiseaseEntry, error)
	LinkPathways(ctx context.Context, diseaseID string) ([]string, error)
	PathwayGenes(ctx context.Context, pathwayID string) ([]kegg.GeneNode, error)
}

// ProteinRegistry ist die vom Enricher konsumierte Sicht auf das
// Protein-Register.
type ProteinRegistry interface {
	SearchGene(ctx context.Context, symbol string) (geneName, accession string, err error)
	SearchReceptors(ctx context.Context, symbol string) ([]string, error)
	ProteinDetail(ctx context.Context, accession string) (*uniprot.ProteinDetail, error)
}

// BioactivityRegistry ist die vom Enricher konsumierte Sicht auf das
// Bioactivity-Register.
type BioactivityRegistry interface {
	GeneID(ctx context.Context, symbol string) (string, error)
	ActiveLigands(ctx context.Context, geneID string) ([]pubchem.Bioactivity, error)
	CompoundName(ctx context.Context, cid string) (string, error)
}
