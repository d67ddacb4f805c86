package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCorpus = `Section Peace and Security
Charter of the United Nations: Adopted June 26, 1945, entered into force October 24, 1945; Parties: 193 member states; Description: Founding instrument of the United Nations.
Treaty on the Non-Proliferation of Nuclear Weapons: Adopted July 1, 1968, entered into force March 5, 1970; Parties: 191; Description: Prevents the spread of nuclear weapons.
Broken Treaty: Adopted 1900
`

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "treaties.txt")
	require.NoError(t, os.WriteFile(path, []byte(testCorpus), 0o600))
	return path
}

func TestCorpusInspect_Path(t *testing.T) {
	cleanup := failingServices()
	defer cleanup()
	path := writeCorpus(t)

	out, err := execute("corpus", "inspect", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Corpus: "+path)
	assert.Contains(t, out, "Records: 2")
	assert.Contains(t, out, "Dropped lines:")
	assert.Contains(t, out, "line 4: expected at least")
}

func TestCorpusInspect_ConfiguredPath(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	path := writeCorpus(t)
	require.NoError(t, ts.settings.Set("corpus.path", path))

	out, err := execute("corpus", "inspect", "--json")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	assert.Contains(t, out, `"records": 2`)
}

func TestCorpusInspect_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("corpus", "inspect", filepath.Join(t.TempDir(), "missing.txt"))

	assert.Error(t, err)
}

func TestCorpusStats(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("corpus", "stats")

	require.NoError(t, err)
	assert.True(t, ts.index.initialised)
	assert.Contains(t, out, "Records:          3")
	assert.Contains(t, out, "keyword-only")
	assert.Contains(t, out, "line 7: no title separator")
}
