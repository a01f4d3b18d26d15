package models

// UniprotProtein repräsentiert einen Protein-Eintrag aus dem Protein-Register.
type UniprotProtein struct {
	UniprotID      string `json:"uniprot_id" gorm:"column:uniprot_id;primaryKey;size:45"`
	ProteinName    string `json:"protein_name,omitempty"`
	FunctionalRole string `json:"functional_role,omitempty" gorm:"type:text"`
}

// TableName gibt explizit den Tabellennamen an.
func (UniprotProtein) TableName() string {
	return "uniprot_proteins"
}

// GeneUniprotBridge verknüpft Gene mit Protein-Accessions (pro Lauf
// höchstens eine Accession je Gen).
type GeneUniprotBridge struct {
	NCBIGeneID string `json:"ncbi_gene_id" gorm:"column:ncbi_gene_id;primaryKey;size:45"`
	UniprotID  string `json:"uniprot_id" gorm:"column:uniprot_id;primaryKey;size:45"`
}

func (GeneUniprotBridge) TableName() string { return "gene_uniprot_bridge" }

// UniprotPdb speichert eine Struktur-ID je Accession, maximal 3 pro Accession
// nach Ranking (X-ray zuerst, dann aufsteigende Auflösung). Der Rang hält die
// Reihenfolge der Anreicherung fest, damit der Cache sie wiedergeben kann.
type UniprotPdb struct {
	UniprotID string `json:"uniprot_id" gorm:"column:uniprot_id;primaryKey;size:45"`
	PdbID     string `json:"pdb_id" gorm:"column:pdb_id;primaryKey;size:45"`
	Rank      int    `json:"rank" gorm:"column:rank;not null;default:0"`
}

func (UniprotPdb) TableName() string { return "uniprot_pdb" }

// UniprotInteraction speichert einen rezeptorartigen Interaktionspartner,
// der aus den Funktionstexten des Protein-Registers abgeleitet wurde.
type UniprotInteraction struct {
	UniprotID   string `json:"uniprot_id" gorm:"column:uniprot_id;primaryKey;size:45"`
	PartnerName string `json:"partner_name" gorm:"primaryKey;size:191"`
	Rank        int    `json:"rank" gorm:"column:rank;not null;default:0"`
}

func (UniprotInteraction) TableName() string { return "uniprot_interactions" }
