package kegg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diseasenet/config"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := &config.Config{
		KeggBaseURL:        srv.URL,
		OrganismCode:       "hsa",
		HTTPTimeoutSeconds: 5,
	}
	return NewClient(cfg, zap.NewNop())
}

func TestFindDiseaseID_ErsterTreffer(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/find/disease/Type%20II%20diabetes%20mellitus", r.URL.EscapedPath())
		w.Write([]byte("ds:H00409\tType II diabetes mellitus\nds:H01456\tDiabetic nephropathy\n"))
	}))

	id, err := client.FindDiseaseID(context.Background(), "Type II diabetes mellitus")
	require.NoError(t, err)
	assert.Equal(t, "ds:H00409", id)
}

func TestFindDiseaseID_KeinTreffer(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\n"))
	}))

	id, err := client.FindDiseaseID(context.Background(), "gibtesnicht")
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestListDiseases(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ds:H00409\tType II diabetes mellitus\nkaputte zeile ohne tab\nds:H00408\tType I diabetes mellitus\n"))
	}))

	entries, err := client.ListDiseases(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, DiseaseEntry{ID: "ds:H00409", Name: "Type II diabetes mellitus"}, entries[0])
	assert.Equal(t, DiseaseEntry{ID: "ds:H00408", Name: "Type I diabetes mellitus"}, entries[1])
}

func TestLinkPathways_FiltertFremdeOrganismen(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ds:H00409\tpath:hsa04930\nds:H00409\tpath:mmu04930\nds:H00409\tpath:hsa04910\n"))
	}))

	pathways, err := client.LinkPathways(context.Background(), "ds:H00409")
	require.NoError(t, err)
	assert.Equal(t, []string{"path:hsa04930", "path:hsa04910"}, pathways)
}

func TestLinkPathways_FehlerStatus(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.LinkPathways(context.Background(), "ds:H00409")
	assert.Error(t, err)
}

const kgmlFixture = `<?xml version="1.0"?>
<pathway name="path:hsa04930" org="hsa" number="04930">
  <entry id="1" name="hsa:3643 hsa:3630" type="gene">
    <graphics name="INSR, CD220, HHF5..." type="rectangle"/>
  </entry>
  <entry id="2" name="hsa:5468" type="gene">
    <graphics name="PPARG" type="rectangle"/>
  </entry>
  <entry id="3" name="path:hsa04910" type="map">
    <graphics name="Insulin signaling pathway" type="roundrectangle"/>
  </entry>
  <entry id="4" name="cpd:C00031" type="compound">
    <graphics name="Glucose" type="circle"/>
  </entry>
  <entry id="5" name="hsa:7124" type="protein">
    <graphics name="TNF, DIF" type="rectangle"/>
  </entry>
  <entry id="6" name="hsa:9999" type="gene">
    <graphics name="" type="rectangle"/>
  </entry>
</pathway>`

func TestParseKGML(t *testing.T) {
	nodes, err := ParseKGML([]byte(kgmlFixture))
	require.NoError(t, err)

	// Map- und Compound-Knoten sowie Knoten ohne Label fallen raus; das
	// Symbol ist das erste Komma-Token, die Kennung das erste Namens-Token.
	assert.Equal(t, []GeneNode{
		{Symbol: "INSR", KeggGeneID: "hsa:3643"},
		{Symbol: "PPARG", KeggGeneID: "hsa:5468"},
		{Symbol: "TNF", KeggGeneID: "hsa:7124"},
	}, nodes)
}

func TestParseKGML_KaputtesXML(t *testing.T) {
	_, err := ParseKGML([]byte("<pathway><entry"))
	assert.Error(t, err)
}

func TestPathwayGenes(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get/path:hsa04930/kgml", r.URL.EscapedPath())
		w.Write([]byte(kgmlFixture))
	}))

	nodes, err := client.PathwayGenes(context.Background(), "path:hsa04930")
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "INSR", nodes[0].Symbol)
}
