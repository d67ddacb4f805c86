package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

var briefingArgs = []string{
	"briefing", "naval blockade",
	"--country", "Gammaria", "--offensive", "Alphaland", "--defensive", "Betavia",
}

func TestBriefingCmd_Text(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(append(briefingArgs, "--severity", "HIGH", "-n", "4")...)

	require.NoError(t, err)
	assert.Contains(t, out, "Briefing: naval blockade")
	assert.Contains(t, out, "Classification: CONFIDENTIAL")
	assert.Contains(t, out, "  - Both parties signed the Charter.")
	assert.Contains(t, out, "Metrics: faithfulness")
	assert.Equal(t, domain.SeverityHigh, ts.briefing.lastQuery.Severity)
	assert.Equal(t, 4, ts.briefing.lastOpts.TopK)
	assert.False(t, ts.briefing.lastOpts.FastMode)
}

func TestBriefingCmd_FastModeFromSettings(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.Settings.Evaluation.FastMode = true

	_, err := execute(briefingArgs...)

	require.NoError(t, err)
	assert.True(t, ts.briefing.lastOpts.FastMode)
}

func TestBriefingCmd_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: "markdown", want: "# Briefing: naval blockade"},
		{format: "html", want: "<h1>Briefing: naval blockade</h1>"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()

			out, err := execute(append(briefingArgs, "--format", tt.format)...)

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestBriefingCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(append(briefingArgs, "-f", "json")...)

	require.NoError(t, err)
	var b domain.Briefing
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.Equal(t, "Betavia", b.Query.DefensiveCountry)
}

func TestBriefingCmd_UnknownFormat(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(append(briefingArgs, "--format", "pdf")...)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBriefingCmd_RequiresParties(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("briefing", "naval blockade", "--country", "Gammaria")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, ts.briefing.lastQuery.Scenario, "service must not be called")
}

func TestBriefingCmd_OutputFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	path := filepath.Join(t.TempDir(), "briefing.md")

	out, err := execute(append(briefingArgs, "-f", "md", "-o", path)...)

	require.NoError(t, err)
	assert.Contains(t, out, "Briefing written to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Briefing: naval blockade")
}
