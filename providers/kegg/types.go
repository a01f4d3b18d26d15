// Package kegg enthält den Client für das Pathway-Register (Textprotokoll
// plus KGML-Pathway-Dokumente).
package kegg

import "encoding/xml"

// DiseaseEntry ist eine Zeile des Krankheitskatalogs (list/disease).
type DiseaseEntry struct {
	ID   string
	Name string
}

// GeneNode ist ein als Gen/Protein getypter Knoten eines Pathway-Dokuments.
type GeneNode struct {
	// Symbol ist das erste kommagetrennte Token des Graphics-Labels.
	Symbol string
	// KeggGeneID ist das erste whitespace-getrennte Token des internen
	// Namensattributs, z.B. "hsa:2099". Leer, wenn der Knoten keins trägt.
	KeggGeneID string
}

// kgmlDocument repräsentiert das KGML-XML eines Pathways.
type kgmlDocument struct {
	XMLName xml.Name    `xml:"pathway"`
	Entries []kgmlEntry `xml:"entry"`
}

// kgmlEntry ist ein einzelner Knoten im Pathway-Graphen.
type kgmlEntry struct {
	Name     string       `xml:"name,attr"`
	Type     string       `xml:"type,attr"`
	Graphics kgmlGraphics `xml:"graphics"`
}

// kgmlGraphics trägt das Anzeige-Label des Knotens.
type kgmlGraphics struct {
	Name string `xml:"name,attr"`
}
