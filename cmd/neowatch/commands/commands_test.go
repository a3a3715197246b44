package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neowatch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNEOs = `pdes,name,diameter,pha
433,Eros,16.84,N
99942,Apophis,0.34,Y
2020 FK,,,N
`

// Последнее сближение принадлежит неизвестному объекту
const testCAD = `{"fields":["des","cd","dist","v_rel"],"data":[
["433","1900-Jan-01 00:11","0.0921","5.98"],
["99942","2029-Apr-13 21:46","0.000254","7.42"],
["2020 FK","2029-Apr-13 23:00","0.03","11.1"],
["99942","2036-Mar-27 06:00","0.2","4.5"],
["2099 XX","2040-Jan-01 00:00","0.01","9.9"],
["433","2056-Jan-24 10:13","0.1","6.1"]
]}`

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	dir := t.TempDir()
	neoPath := filepath.Join(dir, "neos.csv")
	cadPath := filepath.Join(dir, "cad.json")
	require.NoError(t, os.WriteFile(neoPath, []byte(testNEOs), 0o644))
	require.NoError(t, os.WriteFile(cadPath, []byte(testCAD), 0o644))

	cfg := config.Load()
	cfg.Data.Source = config.SourceFile

	root := NewRootCmd(cfg)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--neofile", neoPath, "--cadfile", cadPath}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestInspectByName(t *testing.T) {
	out, _, err := runCLI(t, "inspect", "--name", "Apophis", "--verbose")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "99942 (Apophis)")
	assert.Contains(t, lines[0], "is potentially hazardous")
	assert.Contains(t, lines[1], "2029-04-13 21:46")
	assert.Contains(t, lines[2], "2036-03-27 06:00")
}

func TestInspectByDesignation(t *testing.T) {
	out, _, err := runCLI(t, "inspect", "--pdes", "433")
	require.NoError(t, err)
	assert.Contains(t, out, "433 (Eros)")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestInspectNotFound(t *testing.T) {
	out, errOut, err := runCLI(t, "inspect", "--pdes", "eros")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, noMatchMessage)
}

func TestInspectRequiresOneFlag(t *testing.T) {
	_, _, err := runCLI(t, "inspect")
	assert.Error(t, err)

	_, _, err = runCLI(t, "inspect", "--pdes", "433", "--name", "Eros")
	assert.Error(t, err)
}

func TestQueryDate(t *testing.T) {
	out, _, err := runCLI(t, "query", "--date", "2029-04-13")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "99942 (Apophis)")
	assert.Contains(t, lines[1], "'2020 FK'")
}

func TestQueryLimit(t *testing.T) {
	out, _, err := runCLI(t, "query", "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestQueryStopsAtUnlinkedApproach(t *testing.T) {
	// Фильтр по опасности требует NEO, поток обрывается на 2099 XX
	out, _, err := runCLI(t, "query", "--not-hazardous")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "433 (Eros)")
	assert.Contains(t, lines[1], "'2020 FK'")
	assert.NotContains(t, out, "2056-01-24")
}

func TestQueryOutfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	out, _, err := runCLI(t, "query", "--max-distance", "0.05", "--outfile", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 3)
	assert.Equal(t, "2029-04-13 21:46", records[0]["datetime_utc"])

	orphan := records[2]["neo"].(map[string]interface{})
	assert.Equal(t, "2099 XX", orphan["designation"])
	assert.Nil(t, orphan["name"])
}

func TestQueryInvalidDate(t *testing.T) {
	_, _, err := runCLI(t, "query", "--date", "13/04/2029")
	assert.ErrorContains(t, err, "--date")
}

func TestStats(t *testing.T) {
	out, _, err := runCLI(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "NEOs:               3")
	assert.Contains(t, out, "Named NEOs:         2")
	assert.Contains(t, out, "Hazardous NEOs:     1")
	assert.Contains(t, out, "Close approaches:   6")
	assert.Contains(t, out, "Linked approaches:  5")
	assert.NotContains(t, out, "Stored", "row counts come from postgres only")
}

func TestUnknownSource(t *testing.T) {
	_, _, err := runCLI(t, "--source", "ftp", "stats")
	assert.ErrorContains(t, err, "unknown data source")
}
