package models

// Compound repräsentiert einen Liganden (Small Molecule) aus dem
// Bioactivity-Register.
type Compound struct {
	CID           string `json:"cid" gorm:"column:cid;primaryKey;size:45"`
	PreferredName string `json:"preferred_name,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Compound) TableName() string {
	return "compounds"
}

// GeneCompoundActivity verbindet Gen und Ligand mit der gemessenen Potenz.
// Die Activity-ID ist deterministisch aus Gen-ID, CID und Rang abgeleitet,
// damit wiederholte Läufe keine Duplikate erzeugen.
type GeneCompoundActivity struct {
	ActivityID string  `json:"activity_id" gorm:"column:activity_id;primaryKey;size:45"`
	NCBIGeneID string  `json:"ncbi_gene_id" gorm:"column:ncbi_gene_id;index;not null;size:45"`
	CID        string  `json:"cid" gorm:"column:cid;not null;size:45"`
	PotencyUM  float64 `json:"potency_um" gorm:"column:potency_um"`
}

// TableName gibt explizit den Tabellennamen an.
func (GeneCompoundActivity) TableName() string {
	return "gene_compound_activities"
}
