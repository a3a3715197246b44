package service

import (
	"encoding/csv"
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"neowatch/internal/models"
	"neowatch/internal/utils"
	"neowatch/pkg/logger"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

type ExportService interface {
	// Write serializes results to path, the format follows the extension.
	// It returns the number of approaches written.
	Write(path string, results iter.Seq[*models.CloseApproach]) (int, error)
}

type exportService struct {
	log *zap.SugaredLogger
}

func NewExportService(log *zap.SugaredLogger) ExportService {
	return &exportService{log: log}
}

// FormatOf maps a file extension to an output format
func FormatOf(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
}

func (s *exportService) Write(path string, results iter.Seq[*models.CloseApproach]) (int, error) {
	format, err := FormatOf(path)
	if err != nil {
		return 0, err
	}

	// Создаем директорию если не существует
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, errors.Wrap(err, "failed to create output directory")
		}
	}

	var n int
	switch format {
	case FormatCSV:
		n, err = s.saveToCSV(path, results)
	case FormatJSON:
		n, err = s.saveToJSON(path, results)
	case FormatXLSX:
		n, err = s.saveToExcel(path, results)
	}
	if err != nil {
		return n, errors.Wrapf(err, "failed to write %s", path)
	}

	s.log.Infow("Results written", logger.FieldPath, path, logger.FieldFormat, format, logger.FieldCount, n)
	return n, nil
}

func (s *exportService) saveToCSV(path string, results iter.Seq[*models.CloseApproach]) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// Записываем заголовок
	if err := writer.Write(models.RowFields); err != nil {
		return 0, err
	}

	n := 0
	for ca := range results {
		if err := writer.Write(csvRecord(ca.Row())); err != nil {
			return n, err
		}
		n++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return n, err
	}
	return n, file.Close()
}

// null значения пишутся пустыми ячейками
func csvRecord(row models.Row) []string {
	record := []string{
		row.DatetimeUTC,
		formatFloat(row.DistanceAU),
		formatFloat(row.VelocityKmS),
		row.Designation,
		"",
		"",
		"",
	}
	if row.Name != nil {
		record[4] = *row.Name
	}
	if row.DiameterKm != nil {
		record[5] = formatFloat(*row.DiameterKm)
	}
	if row.PotentiallyHazardous != nil {
		record[6] = formatBool(*row.PotentiallyHazardous)
	}
	return record
}

// булевы значения в CSV пишутся как True/False
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// approachJSON nests the NEO attributes under "neo"
type approachJSON struct {
	DatetimeUTC string  `json:"datetime_utc"`
	DistanceAU  float64 `json:"distance_au"`
	VelocityKmS float64 `json:"velocity_km_s"`
	NEO         neoJSON `json:"neo"`
}

type neoJSON struct {
	Designation          string   `json:"designation"`
	Name                 *string  `json:"name"`
	DiameterKm           *float64 `json:"diameter_km"`
	PotentiallyHazardous *bool    `json:"potentially_hazardous"`
}

func (s *exportService) saveToJSON(path string, results iter.Seq[*models.CloseApproach]) (int, error) {
	records := make([]approachJSON, 0)
	for ca := range results {
		row := ca.Row()
		records = append(records, approachJSON{
			DatetimeUTC: row.DatetimeUTC,
			DistanceAU:  row.DistanceAU,
			VelocityKmS: row.VelocityKmS,
			NEO: neoJSON{
				Designation:          row.Designation,
				Name:                 row.Name,
				DiameterKm:           row.DiameterKm,
				PotentiallyHazardous: row.PotentiallyHazardous,
			},
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, err
	}

	return len(records), os.WriteFile(path, data, 0644)
}

func (s *exportService) saveToExcel(path string, results iter.Seq[*models.CloseApproach]) (int, error) {
	var rows []models.Row
	for ca := range results {
		rows = append(rows, ca.Row())
	}

	if err := utils.CreateExcelFile(path, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
