package uniprot

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"diseasenet/config"
)

// Client kapselt die Aufrufe gegen das Protein-Register.
type Client struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
}

// NewClient erstellt einen neuen Protein-Register-Client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

// SearchGene sucht organismus-beschränkt nach einem Gensymbol und gibt
// Genname und Accession des ersten Treffers zurück. Leere Strings bedeuten
// kein Treffer; die Sentinel-Substitution übernimmt der Aufrufer.
func (c *Client) SearchGene(ctx context.Context, symbol string) (string, string, error) {
	log := c.Logger.With(zap.String("symbol", symbol))
	log.Debug("Suche Gen im Protein-Register.")

	var sr searchResponse
	if err := c.getJSON(ctx, c.searchURL(symbol), &sr); err != nil {
		return "", "", err
	}
	if len(sr.Results) == 0 {
		return "", "", nil
	}

	entry := sr.Results[0]
	geneName := ""
	if len(entry.Genes) > 0 {
		geneName = entry.Genes[0].GeneName.Value
	}
	return geneName, entry.PrimaryAccession, nil
}

// SearchReceptors führt dieselbe Suche aus, scannt aber alle Treffer und
// sammelt die empfohlenen Proteinnamen, deren erster Funktionstext das Wort
// "receptor" enthält. Das Ergebnis ist dedupliziert, Reihenfolge des ersten
// Auftretens.
func (c *Client) SearchReceptors(ctx context.Context, symbol string) ([]string, error) {
	var sr searchResponse
	if err := c.getJSON(ctx, c.searchURL(symbol), &sr); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var receptors []string
	for _, result := range sr.Results {
		name := strings.TrimSpace(result.ProteinDescription.RecommendedName.FullName.Value)
		if name == "" || name == "N/A" {
			continue
		}
		for _, comment := range result.Comments {
			if comment.CommentType != "FUNCTION" || len(comment.Texts) == 0 {
				continue
			}
			if !strings.Contains(strings.ToLower(comment.Texts[0].Value), "receptor") {
				continue
			}
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				receptors = append(receptors, name)
			}
		}
	}

	c.Logger.Debug("Rezeptor-Scan abgeschlossen",
		zap.String("symbol", symbol), zap.Int("receptors", len(receptors)))
	return receptors, nil
}

// ProteinDetail lädt die XML-Detailseite einer Accession: empfohlener Name,
// erster Funktionskommentar und die Top-3-Struktur-IDs.
func (c *Client) ProteinDetail(ctx context.Context, accession string) (*ProteinDetail, error) {
	log := c.Logger.With(zap.String("accession", accession))
	log.Debug("Hole Protein-Detail.")

	detailURL := fmt.Sprintf("%s/uniprotkb/%s.xml", c.Config.UniProtBaseURL, url.PathEscape(accession))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("protein registry returned status %d", resp.StatusCode)
	}

	var doc entryDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}

	detail := &ProteinDetail{
		Name: strings.TrimSpace(doc.Entry.Protein.RecommendedName.FullName),
	}
	for _, comment := range doc.Entry.Comments {
		if comment.Type == "function" && strings.TrimSpace(comment.Text) != "" {
			detail.FunctionalRole = strings.TrimSpace(comment.Text)
			break
		}
	}

	var candidates []pdbCandidate
	for _, ref := range doc.Entry.DbReferences {
		if ref.Type != "PDB" {
			continue
		}
		candidate := pdbCandidate{ID: ref.ID}
		for _, prop := range ref.Properties {
			switch prop.Type {
			case "method":
				candidate.Method = prop.Value
			case "resolution":
				candidate.Resolution = prop.Value
			}
		}
		candidates = append(candidates, candidate)
	}
	detail.PDBIDs = rankPDB(candidates, 3)

	return detail, nil
}

// rankPDB sortiert Struktur-Kandidaten: X-ray vor allen anderen Methoden,
// innerhalb dessen aufsteigend nach Auflösung; fehlende Auflösung sortiert
// ans Ende. Gibt die ersten limit IDs zurück.
func rankPDB(candidates []pdbCandidate, limit int) []string {
	sort.SliceStable(candidates, func(i, j int) bool {
		xi, xj := candidates[i].Method == "X-ray", candidates[j].Method == "X-ray"
		if xi != xj {
			return xi
		}
		return parseResolution(candidates[i].Resolution) < parseResolution(candidates[j].Resolution)
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

// parseResolution macht aus "1.50 A" einen float; unparsbares gilt als
// schlechteste Auflösung.
func parseResolution(raw string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "A", ""))
	if cleaned == "" || cleaned == "N/" {
		return math.Inf(1)
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.Inf(1)
	}
	return value
}

// searchURL baut die URL der organismus-beschränkten Volltextsuche.
func (c *Client) searchURL(symbol string) string {
	query := fmt.Sprintf("%s AND organism_id:%s", symbol, c.Config.OrganismTaxID)
	return fmt.Sprintf("%s/uniprotkb/search?query=%s&format=json",
		c.Config.UniProtBaseURL, url.QueryEscape(query))
}

// getJSON führt einen GET-Request aus und dekodiert die JSON-Antwort.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("protein registry returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
