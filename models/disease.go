package models

import "time"

// Disease repräsentiert eine Krankheit aus dem Pathway-Register.
// Der KEGG-Identifier ist der natürliche Primärschlüssel; der Anzeigename
// wird nur beim ersten Insert gesetzt und später nie überschrieben.
type Disease struct {
	KeggDiseaseID string    `json:"kegg_disease_id" gorm:"column:kegg_disease_id;primaryKey;size:50"`
	DiseaseName   string    `json:"disease_name" gorm:"index;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName gibt explizit den Tabellennamen an.
func (Disease) TableName() string {
	return "diseases"
}

// DiseasePathway verknüpft Krankheiten und Pathways (n:m).
type DiseasePathway struct {
	KeggDiseaseID string `json:"kegg_disease_id" gorm:"column:kegg_disease_id;primaryKey;size:50"`
	KeggPathwayID string `json:"kegg_pathway_id" gorm:"column:kegg_pathway_id;primaryKey;size:45"`
}

func (DiseasePathway) TableName() string { return "disease_pathways" }

// DiseaseGene verknüpft Krankheiten mit den angereicherten Genen.
type DiseaseGene struct {
	KeggDiseaseID string `json:"kegg_disease_id" gorm:"column:kegg_disease_id;primaryKey;size:50"`
	NCBIGeneID    string `json:"ncbi_gene_id" gorm:"column:ncbi_gene_id;primaryKey;size:45"`
}

func (DiseaseGene) TableName() string { return "disease_genes" }
