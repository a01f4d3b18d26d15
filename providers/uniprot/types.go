// Package uniprot enthält den Client für das Protein-Register
// (JSON-Suche plus XML-Detailabruf je Accession).
package uniprot

import "encoding/xml"

// ProteinDetail ist das Ergebnis des Detailabrufs für eine Accession.
type ProteinDetail struct {
	Name           string
	FunctionalRole string
	// PDBIDs sind die höchstens 3 Struktur-IDs nach Ranking
	// (X-ray zuerst, dann aufsteigende Auflösung, fehlende zuletzt).
	PDBIDs []string
}

// searchResponse ist die Top-Level-Struktur der JSON-Suchantwort.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

// searchResult ist ein einzelner Treffer der organismus-beschränkten Suche.
type searchResult struct {
	PrimaryAccession string `json:"primaryAccession"`
	Genes            []struct {
		GeneName struct {
			Value string `json:"value"`
		} `json:"geneName"`
	} `json:"genes"`
	ProteinDescription struct {
		RecommendedName struct {
			FullName struct {
				Value string `json:"value"`
			} `json:"fullName"`
		} `json:"recommendedName"`
	} `json:"proteinDescription"`
	Comments []struct {
		CommentType string `json:"commentType"`
		Texts       []struct {
			Value string `json:"value"`
		} `json:"texts"`
	} `json:"comments"`
}

// entryDocument repräsentiert die XML-Detailantwort für eine Accession.
type entryDocument struct {
	XMLName xml.Name `xml:"uniprot"`
	Entry   struct {
		Protein struct {
			RecommendedName struct {
				FullName string `xml:"fullName"`
			} `xml:"recommendedName"`
		} `xml:"protein"`
		Comments []struct {
			Type string `xml:"type,attr"`
			Text string `xml:"text"`
		} `xml:"comment"`
		DbReferences []struct {
			Type       string `xml:"type,attr"`
			ID         string `xml:"id,attr"`
			Properties []struct {
				Type  string `xml:"type,attr"`
				Value string `xml:"value,attr"`
			} `xml:"property"`
		} `xml:"dbReference"`
	} `xml:"entry"`
}

// pdbCandidate ist ein Struktur-Querverweis vor dem Ranking.
type pdbCandidate struct {
	ID         string
	Method     string
	Resolution string
}
