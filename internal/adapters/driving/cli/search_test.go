package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "5", flag.DefValue)

	for _, name := range []string{"fusion", "weight", "rerank", "no-boost", "json", "country", "offensive", "defensive"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), name)
	}
}

func TestSearchCmd_TextSearch(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "nuclear test ban")

	require.NoError(t, err)
	assert.Equal(t, "nuclear test ban", ts.retrieval.lastText)
	assert.Nil(t, ts.retrieval.lastQuery)
	assert.Contains(t, out, "[1] Charter of the United Nations (0.82)")
	assert.Contains(t, out, "Signing: both_signed")
	assert.Contains(t, out, "Searched 8 chunks")
}

func TestSearchCmd_ScenarioSearch(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search", "border clash",
		"--country", "Gammaria", "--offensive", "Alphaland", "--defensive", "Betavia",
		"--conflict", "Territorial", "-n", "3", "--fusion", "rrf", "--no-boost")

	require.NoError(t, err)
	require.NotNil(t, ts.retrieval.lastQuery)
	q := ts.retrieval.lastQuery
	assert.Equal(t, "Alphaland", q.OffensiveCountry)
	assert.Equal(t, domain.ConflictType("territorial"), q.ConflictType)
	assert.Equal(t, 3, ts.retrieval.lastOpts.TopK)
	assert.Equal(t, domain.FusionRRF, ts.retrieval.lastOpts.Strategy)
	assert.False(t, ts.retrieval.lastOpts.ScenarioBoost)
}

func TestSearchCmd_UsesConfiguredDefaults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.Settings.Retrieval.TopK = 9

	_, err := execute("search", "maritime boundary")

	require.NoError(t, err)
	assert.Equal(t, 9, ts.retrieval.lastOpts.TopK)
}

func TestSearchCmd_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown fusion", args: []string{"--fusion", "magic"}},
		{name: "weight out of range", args: []string{"--weight", "1.5"}},
		{name: "partial parties", args: []string{"--country", "Gammaria"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()

			_, err := execute(append([]string{"search", "x"}, tt.args...)...)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "--json", "ceasefire")

	require.NoError(t, err)
	var result domain.RetrievalResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "rec-1-0", result.Documents[0].Chunk.ID)
}

func TestSearchCmd_NoResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.Retrieval = emptyRetrieval{}

	out, err := execute("search", "nothing matches")

	require.NoError(t, err)
	assert.Contains(t, out, "No treaties found.")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.retrieval.err = domain.ErrIndexNotReady

	_, err := execute("search", "x")

	assert.ErrorIs(t, err, domain.ErrIndexNotReady)
}

func TestSearchCmd_FactoryError(t *testing.T) {
	cleanup := failingServices()
	defer cleanup()

	_, err := execute("search", "x")

	assert.ErrorIs(t, err, errFactoryCalled)
}

type emptyRetrieval struct{}

func (emptyRetrieval) Search(
	context.Context, domain.RetrievalQuery, domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	return domain.RetrievalResult{Strategy: domain.FusionLinear}, nil
}

func (emptyRetrieval) SearchText(
	context.Context, string, domain.RetrievalOptions,
) (domain.RetrievalResult, error) {
	return domain.RetrievalResult{Strategy: domain.FusionLinear}, nil
}
