package service

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"neowatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

func exportFixture() []*models.CloseApproach {
	t1 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, time.January, 2, 6, 30, 0, 0, time.UTC)

	linked := &models.CloseApproach{Designation: "2000 AB", Time: &t1, Distance: 0.05, Velocity: 10}
	linked.Link(&models.NearEarthObject{Designation: "2000 AB", Name: "Apophis", Diameter: 0.3, Hazardous: true})

	orphan := &models.CloseApproach{Designation: "9999 ZZ", Time: &t2, Distance: 0.2, Velocity: 3.5}

	return []*models.CloseApproach{linked, orphan}
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]string{
		"out.csv":        FormatCSV,
		"dir/OUT.JSON":   FormatJSON,
		"/tmp/data.xlsx": FormatXLSX,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got)
	}

	_, err := FormatOf("out.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "out.csv")
	svc := NewExportService(zaptest.NewLogger(t).Sugar())

	n, err := svc.Write(path, slices.Values(exportFixture()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.RowFields, records[0])
	assert.Equal(t, []string{"2025-01-01 00:00", "0.05", "10", "2000 AB", "Apophis", "0.3", "True"}, records[1])
	assert.Equal(t, []string{"2025-01-02 06:30", "0.2", "3.5", "9999 ZZ", "", "", ""}, records[2])
}

func TestCSVRecordBooleans(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, "True", csvRecord(models.Row{PotentiallyHazardous: &yes})[6])
	assert.Equal(t, "False", csvRecord(models.Row{PotentiallyHazardous: &no})[6])
	assert.Empty(t, csvRecord(models.Row{})[6])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	svc := NewExportService(zaptest.NewLogger(t).Sugar())

	n, err := svc.Write(path, slices.Values(exportFixture()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{
			"datetime_utc": "2025-01-01 00:00",
			"distance_au": 0.05,
			"velocity_km_s": 10,
			"neo": {"designation": "2000 AB", "name": "Apophis", "diameter_km": 0.3, "potentially_hazardous": true}
		},
		{
			"datetime_utc": "2025-01-02 06:30",
			"distance_au": 0.2,
			"velocity_km_s": 3.5,
			"neo": {"designation": "9999 ZZ", "name": null, "diameter_km": null, "potentially_hazardous": null}
		}
	]`, string(data))
}

func TestWriteJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	svc := NewExportService(zaptest.NewLogger(t).Sugar())

	n, err := svc.Write(path, slices.Values([]*models.CloseApproach{}))
	require.NoError(t, err)
	assert.Zero(t, n)

	var decoded []interface{}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Empty(t, decoded)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	svc := NewExportService(zaptest.NewLogger(t).Sugar())

	n, err := svc.Write(path, slices.Values(exportFixture()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Approaches")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.RowFields, rows[0])
	assert.Equal(t, "Apophis", rows[1][4])
	assert.Equal(t, "9999 ZZ", rows[2][3])

	info, err := f.GetRows("Info")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total Approaches", "2"}, info[1])
	assert.Equal(t, []string{"Hazardous Approaches", "1"}, info[3])
}

func TestWriteUnsupported(t *testing.T) {
	svc := NewExportService(zaptest.NewLogger(t).Sugar())

	_, err := svc.Write(filepath.Join(t.TempDir(), "out.txt"), slices.Values(exportFixture()))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
