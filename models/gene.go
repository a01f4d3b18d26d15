package models

// Gene repräsentiert ein Gen. Primärschlüssel ist die numerische Gen-ID aus
// dem Bioactivity-Register (NCBI), nicht die pathway-lokale Kennung. Gene
// ohne auflösbare numerische ID werden nie persistiert.
type Gene struct {
	NCBIGeneID string `json:"ncbi_gene_id" gorm:"column:ncbi_gene_id;primaryKey;size:45"`
	GeneSymbol string `json:"gene_symbol" gorm:"index;not null;size:45"`
	// Pathway-native Kennung wie "hsa:2099", nur zur Nachverfolgbarkeit.
	KeggGeneID string `json:"kegg_gene_id,omitempty" gorm:"column:kegg_gene_id;index;size:45"`
}

// TableName gibt explizit den Tabellennamen an.
func (Gene) TableName() string {
	return "genes"
}
