// Package extract reads NEO and close-approach records from NASA data files
// and API payloads. Records come out unlinked.
package extract

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"neowatch/internal/models"

	"github.com/cockroachdb/errors"
)

// Column names in the SBDB catalog and fields in CAD/SBDB API payloads
const (
	ColDesignation = "pdes"
	ColName        = "name"
	ColDiameter    = "diameter"
	ColHazardous   = "pha"

	FieldDesignation  = "des"
	FieldCalendarDate = "cd"
	FieldDistance     = "dist"
	FieldVelocity     = "v_rel"
)

// Table is the {fields, data} layout shared by cad.json and the JPL SSD APIs.
// Missing values are JSON null.
type Table struct {
	Fields []string    `json:"fields"`
	Data   [][]*string `json:"data"`
}

// LoadNEOs reads the SBDB CSV export. Columns are looked up by header name.
func LoadNEOs(r io.Reader) ([]*models.NearEarthObject, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read NEO header")
	}

	idx, err := columnIndex(header, ColDesignation, ColName, ColDiameter, ColHazardous)
	if err != nil {
		return nil, err
	}

	var neos []*models.NearEarthObject
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read NEO line %d", line)
		}

		neo, err := models.NewNearEarthObject(
			record[idx[ColDesignation]],
			record[idx[ColName]],
			record[idx[ColDiameter]],
			record[idx[ColHazardous]],
		)
		if err != nil {
			return nil, errors.Wrapf(err, "NEO line %d", line)
		}
		neos = append(neos, neo)
	}

	return neos, nil
}

// LoadApproaches reads a CAD payload (cad.json or a cad.api response).
func LoadApproaches(r io.Reader) ([]*models.CloseApproach, error) {
	var table Table
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, errors.Wrap(err, "failed to decode close approach data")
	}
	return table.Approaches()
}

// LoadNEOTable reads an SBDB query API payload.
func LoadNEOTable(r io.Reader) ([]*models.NearEarthObject, error) {
	var table Table
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, errors.Wrap(err, "failed to decode NEO data")
	}
	return table.NEOs()
}

func LoadNEOsFile(path string) ([]*models.NearEarthObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open NEO file")
	}
	defer f.Close()

	return LoadNEOs(f)
}

func LoadApproachesFile(path string) ([]*models.CloseApproach, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open close approach file")
	}
	defer f.Close()

	return LoadApproaches(f)
}

func (t Table) Approaches() ([]*models.CloseApproach, error) {
	idx, err := columnIndex(t.Fields, FieldDesignation, FieldCalendarDate, FieldDistance, FieldVelocity)
	if err != nil {
		return nil, err
	}

	approaches := make([]*models.CloseApproach, 0, len(t.Data))
	for i, row := range t.Data {
		ca, err := models.NewCloseApproach(
			cell(row, idx[FieldDesignation]),
			cell(row, idx[FieldCalendarDate]),
			cell(row, idx[FieldDistance]),
			cell(row, idx[FieldVelocity]),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "close approach row %d", i)
		}
		approaches = append(approaches, ca)
	}

	return approaches, nil
}

func (t Table) NEOs() ([]*models.NearEarthObject, error) {
	idx, err := columnIndex(t.Fields, ColDesignation, ColName, ColDiameter, ColHazardous)
	if err != nil {
		return nil, err
	}

	neos := make([]*models.NearEarthObject, 0, len(t.Data))
	for i, row := range t.Data {
		neo, err := models.NewNearEarthObject(
			cell(row, idx[ColDesignation]),
			cell(row, idx[ColName]),
			cell(row, idx[ColDiameter]),
			cell(row, idx[ColHazardous]),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "NEO row %d", i)
		}
		neos = append(neos, neo)
	}

	return neos, nil
}

func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for i, name := range header {
		idx[name] = i
	}

	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, errors.Newf("missing column %q", name)
		}
	}

	return idx, nil
}

// null и короткие строки считаются пустыми значениями
func cell(row []*string, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return *row[i]
}
