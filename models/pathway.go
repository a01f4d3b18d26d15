package models

// Pathway repräsentiert einen biologischen Pathway aus dem Pathway-Register.
type Pathway struct {
	KeggPathwayID string `json:"kegg_pathway_id" gorm:"column:kegg_pathway_id;primaryKey;size:45"`
	PathwayName   string `json:"pathway_name,omitempty"`
	OrganismCode  string `json:"organism_code,omitempty" gorm:"index;size:45"`
}

// TableName gibt explizit den Tabellennamen an.
func (Pathway) TableName() string {
	return "pathways"
}
