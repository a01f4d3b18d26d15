// Package pubchem enthält den Client für das Bioactivity-Register (JSON).
package pubchem

// Bioactivity ist eine als "Active" klassifizierte Assay-Zeile.
type Bioactivity struct {
	CID       string
	PotencyUM float64
}

// geneSummaryResponse ist die Antwort der Gensymbol-Suche.
type geneSummaryResponse struct {
	GeneSummaries struct {
		GeneSummary []struct {
			GeneID int64 `json:"GeneID"`
		} `json:"GeneSummary"`
	} `json:"GeneSummaries"`
}

// conciseResponse ist die spaltenorientierte Activity-Tabelle. Die Zellen
// kommen je nach Spalte als String oder Zahl, daher any.
type conciseResponse struct {
	Table struct {
		Columns struct {
			Column []string `json:"Column"`
		} `json:"Columns"`
		Row []struct {
			Cell []any `json:"Cell"`
		} `json:"Row"`
	} `json:"Table"`
}

// compoundPropertyResponse ist die Antwort des Title-Lookups je CID.
type compoundPropertyResponse struct {
	PropertyTable struct {
		Properties []struct {
			Title string `json:"Title"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}
