package kegg

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"diseasenet/config"
)

// Client kapselt die Aufrufe gegen das Pathway-Register.
type Client struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
}

// NewClient erstellt einen neuen Pathway-Register-Client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

// FindDiseaseID sucht per Freitext nach einer Krankheit und gibt den
// Identifier des ersten Treffers zurück. Leerer String bedeutet kein Treffer.
func (c *Client) FindDiseaseID(ctx context.Context, name string) (string, error) {
	log := c.Logger.With(zap.String("disease", name))
	log.Info("Suche Krankheits-ID im Pathway-Register.")

	body, err := c.get(ctx, fmt.Sprintf("%s/find/disease/%s", c.Config.KeggBaseURL, url.PathEscape(name)))
	if err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) == 0 || lines[0] == "" {
		log.Warn("Keine Krankheits-ID gefunden.")
		return "", nil
	}

	id := strings.SplitN(lines[0], "\t", 2)[0]
	log.Info("Krankheits-ID gefunden", zap.String("disease_id", id))
	return id, nil
}

// ListDiseases lädt den vollständigen Krankheitskatalog (für die
// Fuzzy-Vorschläge).
func (c *Client) ListDiseases(ctx context.Context) ([]DiseaseEntry, error) {
	body, err := c.get(ctx, c.Config.KeggBaseURL+"/list/disease")
	if err != nil {
		return nil, err
	}

	var entries []DiseaseEntry
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		parts := strings.SplitN(line, "\t", 2)
		if len(parts) < 2 {
			continue
		}
		entries = append(entries, DiseaseEntry{ID: parts[0], Name: parts[1]})
	}

	c.Logger.Debug("Krankheitskatalog geladen", zap.Int("entries", len(entries)))
	return entries, nil
}

// LinkPathways listet die Pathways zu einer Krankheits-ID. Nur Einträge aus
// dem Zielorganismus-Namespace werden behalten, der Rest wird still verworfen.
func (c *Client) LinkPathways(ctx context.Context, diseaseID string) ([]string, error) {
	log := c.Logger.With(zap.String("disease_id", diseaseID))
	log.Info("Hole Pathways für Krankheits-ID.")

	body, err := c.get(ctx, fmt.Sprintf("%s/link/pathway/%s", c.Config.KeggBaseURL, url.PathEscape(diseaseID)))
	if err != nil {
		return nil, err
	}

	var pathwayIDs []string
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		if !strings.Contains(line, c.Config.OrganismCode) {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		pathwayIDs = append(pathwayIDs, parts[1])
	}

	log.Info("Pathways gefunden", zap.Int("count", len(pathwayIDs)))
	return pathwayIDs, nil
}

// PathwayGenes lädt das KGML-Dokument eines Pathways und extrahiert alle als
// Gen oder Protein getypten Knoten. Knoten ohne brauchbares Label werden
// übersprungen.
func (c *Client) PathwayGenes(ctx context.Context, pathwayID string) ([]GeneNode, error) {
	log := c.Logger.With(zap.String("pathway_id", pathwayID))
	log.Debug("Hole KGML-Dokument für Pathway.")

	body, err := c.get(ctx, fmt.Sprintf("%s/get/%s/kgml", c.Config.KeggBaseURL, url.PathEscape(pathwayID)))
	if err != nil {
		return nil, err
	}

	genes, err := ParseKGML([]byte(body))
	if err != nil {
		return nil, err
	}

	log.Info("Gene aus Pathway extrahiert", zap.Int("count", len(genes)))
	return genes, nil
}

// ParseKGML extrahiert Gen-/Protein-Knoten aus einem KGML-Dokument. Das
// Symbol ist das erste kommagetrennte Token des Graphics-Labels; die
// pathway-lokale Kennung das erste whitespace-getrennte Token des
// Namensattributs (ein Knoten kann mehrere synonyme Kennungen deklarieren,
// nur die erste wird behalten).
func ParseKGML(data []byte) ([]GeneNode, error) {
	var doc kgmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("kgml parsing fehlgeschlagen: %w", err)
	}

	var nodes []GeneNode
	for _, entry := range doc.Entries {
		if entry.Type != "gene" && entry.Type != "protein" {
			continue
		}
		label := strings.TrimSpace(entry.Graphics.Name)
		if label == "" {
			continue
		}

		symbol := strings.TrimSpace(strings.SplitN(label, ",", 2)[0])
		if symbol == "" {
			continue
		}

		keggGeneID := ""
		if fields := strings.Fields(entry.Name); len(fields) > 0 {
			keggGeneID = fields[0]
		}

		nodes = append(nodes, GeneNode{Symbol: symbol, KeggGeneID: keggGeneID})
	}
	return nodes, nil
}

// get führt einen GET-Request aus und gibt den Body als String zurück.
func (c *Client) get(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pathway registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
