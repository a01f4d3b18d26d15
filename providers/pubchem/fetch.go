package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"diseasenet/config"
)

// Das Bioactivity-Register dokumentiert feste Spaltenpositionen für die
// Concise-Tabelle. Sie dienen nur noch als Fallback; wenn die Antwort
// Spaltennamen mitliefert, werden die Positionen darüber aufgelöst.
const (
	fallbackOutcomeIndex = 3
	fallbackCIDIndex     = 2
	fallbackPotencyIndex = 7

	// Nur die ersten Zeilen werden gescannt, das reicht für aktive Liganden.
	maxActivityRows = 20
)

// Client kapselt die Aufrufe gegen das Bioactivity-Register. Das Register
// verlangt eine feste Pause zwischen Anfragen, die hier unabhängig von der
// Pool-Größe des Aufrufers eingehalten wird.
type Client struct {
	Config     *config.Config
	Logger     *zap.Logger
	httpClient *http.Client
	delay      time.Duration
}

// NewClient erstellt einen neuen Bioactivity-Register-Client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		Config:     cfg,
		Logger:     logger,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout()},
		delay:      time.Duration(cfg.PubChemDelayMillis) * time.Millisecond,
	}
}

// GeneID löst ein Gensymbol zur numerischen Gen-ID auf. Leerer String
// bedeutet: keine ID vorhanden, das ist kein Fehler.
func (c *Client) GeneID(ctx context.Context, symbol string) (string, error) {
	c.pace()
	log := c.Logger.With(zap.String("symbol", symbol))
	log.Debug("Suche Gen-ID im Bioactivity-Register.")

	var sr geneSummaryResponse
	reqURL := fmt.Sprintf("%s/gene/genesymbol/%s/summary/JSON", c.Config.PubChemBaseURL, url.PathEscape(symbol))
	if err := c.getJSON(ctx, reqURL, &sr); err != nil {
		return "", err
	}

	if len(sr.GeneSummaries.GeneSummary) == 0 {
		log.Warn("Keine Gen-ID im Bioactivity-Register gefunden.")
		return "", nil
	}

	geneID := strconv.FormatInt(sr.GeneSummaries.GeneSummary[0].GeneID, 10)
	log.Debug("Gen-ID gefunden", zap.String("gene_id", geneID))
	return geneID, nil
}

// ActiveLigands lädt die Concise-Activity-Tabelle einer Gen-ID und behält
// aus den ersten Zeilen nur die, deren Outcome exakt "Active" ist und deren
// Potenz als positive Zahl parst. Zeilenreihenfolge bleibt erhalten.
func (c *Client) ActiveLigands(ctx context.Context, geneID string) ([]Bioactivity, error) {
	c.pace()
	log := c.Logger.With(zap.String("gene_id", geneID))
	log.Debug("Hole Bioactivity-Tabelle.")

	var cr conciseResponse
	reqURL := fmt.Sprintf("%s/gene/geneid/%s/concise/JSON", c.Config.PubChemBaseURL, url.PathEscape(geneID))
	if err := c.getJSON(ctx, reqURL, &cr); err != nil {
		return nil, err
	}

	outcomeIdx, cidIdx, potencyIdx := resolveColumns(cr.Table.Columns.Column)

	var ligands []Bioactivity
	rows := cr.Table.Row
	if len(rows) > maxActivityRows {
		rows = rows[:maxActivityRows]
	}
	for _, row := range rows {
		cells := row.Cell
		if len(cells) <= outcomeIdx || len(cells) <= cidIdx || len(cells) <= potencyIdx {
			continue
		}
		if cellString(cells[outcomeIdx]) != "Active" {
			continue
		}
		potency, err := strconv.ParseFloat(cellString(cells[potencyIdx]), 64)
		if err != nil || potency <= 0 {
			continue
		}
		cid := cellString(cells[cidIdx])
		if cid == "" {
			continue
		}
		ligands = append(ligands, Bioactivity{CID: cid, PotencyUM: potency})
	}

	log.Info("Aktive Liganden gefunden", zap.Int("count", len(ligands)))
	return ligands, nil
}

// CompoundName löst eine CID zum Anzeigenamen auf. Leerer String bedeutet:
// kein Titel hinterlegt. Die Fallback-Benennung übernimmt der Aufrufer, damit
// transiente Fehler hinter der Retry-Policy bleiben statt als Name zu enden.
func (c *Client) CompoundName(ctx context.Context, cid string) (string, error) {
	c.pace()

	var pr compoundPropertyResponse
	reqURL := fmt.Sprintf("%s/compound/cid/%s/property/Title/JSON", c.Config.PubChemBaseURL, url.PathEscape(cid))
	if err := c.getJSON(ctx, reqURL, &pr); err != nil {
		return "", err
	}
	if len(pr.PropertyTable.Properties) == 0 {
		return "", nil
	}
	return pr.PropertyTable.Properties[0].Title, nil
}

// resolveColumns findet die Zellpositionen über die Spaltennamen der
// Antwort. Fehlen die Namen, gelten die dokumentierten festen Positionen.
func resolveColumns(columns []string) (outcomeIdx, cidIdx, potencyIdx int) {
	outcomeIdx, cidIdx, potencyIdx = fallbackOutcomeIndex, fallbackCIDIndex, fallbackPotencyIndex
	for i, name := range columns {
		switch name {
		case "Activity Outcome":
			outcomeIdx = i
		case "CID":
			cidIdx = i
		case "Activity Value [uM]":
			potencyIdx = i
		}
	}
	return outcomeIdx, cidIdx, potencyIdx
}

// cellString normalisiert eine Tabellenzelle zu einem getrimmten String.
func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// pace hält die feste Pause zwischen zwei Register-Anfragen ein.
func (c *Client) pace() {
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
}

// getJSON führt einen GET-Request aus und dekodiert die JSON-Antwort. Eine
// Antwort ohne JSON-Content-Type gilt als Fehler, das Register liefert bei
// Störungen gelegentlich HTML-Seiten mit Status 200.
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
		return fmt.Errorf("bioactivity registry returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("bioactivity registry returned unexpected content type %q", ct)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
