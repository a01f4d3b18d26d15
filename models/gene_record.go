package models

// Sentinel-Werte für fehlende Daten. Jedes Textfeld eines GeneRecord trägt
// entweder einen echten Wert oder genau einen dieser Marker, niemals einen
// Leerwert. Die Werte sind Teil des nach außen sichtbaren Verhaltens und
// dürfen nicht geändert werden, da gecachte Ergebnisse sie enthalten.
const (
	NotAvailable        = "N/A"
	ErrorMarker         = "Error"
	NoProteinName       = "Protein name not available"
	NoFunctionalRole    = "Functional role not available"
	NoPDBIDs            = "No PDB IDs"
	NoReceptors         = "No receptor interaction"
	NoLigandData        = "No ligand data available"
	NoGeneIDFound       = "No gene ID found"
	ErrorProcessingGene = "Error processing gene"
)

// Ligand ist ein einzelner aktiver Ligand mit Potenz in Mikromolar.
type Ligand struct {
	CID       string  `json:"cid"`
	Name      string  `json:"name"`
	PotencyUM float64 `json:"potency_um"`
}

// GeneRecord ist die denormalisierte Ergebniszeile für ein Gen. Sie ist das
// transiente Arbeitsformat eines Laufs und zugleich das Format, das der
// Cache rekonstruiert; beide sind strukturell nicht unterscheidbar.
type GeneRecord struct {
	GeneName       string   `json:"gene_name"`
	GeneID         string   `json:"gene_id"`
	UniprotID      string   `json:"uniprot_id"`
	ProteinName    string   `json:"protein_name"`
	PDBIDs         string   `json:"pdb_ids"`
	Receptors      string   `json:"receptors"`
	FunctionalRole string   `json:"functional_role"`
	Ligands        string   `json:"ligands"`
	LigandsStruct  []Ligand `json:"ligands_struct"`
	// ReceptorsList trägt die Partner einzeln, weil Namen selbst Kommas
	// enthalten können und der Anzeigestring dann nicht verlustfrei
	// zerlegbar ist.
	ReceptorsList []string `json:"-"`
	// Pathway-native Kennung, wird nach der Anreicherung vom Harvester-Input
	// angeheftet und nie aus einem Register geholt.
	KeggGeneID string `json:"kegg_gene_id,omitempty"`
}

// HasUsableGeneID meldet, ob der Record eine persistierbare numerische
// Gen-ID trägt. Records ohne brauchbare ID werden jeden Lauf neu
// angereichert, aber nie gecacht.
func (r *GeneRecord) HasUsableGeneID() bool {
	switch r.GeneID {
	case "", NotAvailable, ErrorMarker, NoGeneIDFound:
		return false
	}
	return true
}

// HasUsableAccession meldet, ob der Record eine echte Protein-Accession trägt.
func (r *GeneRecord) HasUsableAccession() bool {
	switch r.UniprotID {
	case "", NotAvailable, ErrorMarker:
		return false
	}
	return true
}

// FallbackCompoundName ist der generierte Anzeigename eines Liganden, dessen
// echter Name (noch) nicht aufgelöst werden konnte.
func FallbackCompoundName(cid string) string {
	return "Compound_" + cid
}

// DiseaseSuggestion ist ein Fuzzy-Treffer aus dem Krankheitskatalog.
type DiseaseSuggestion struct {
	Name  string `json:"name"`
	ID    string `json:"id"`
	Score int    `json:"score"`
}
