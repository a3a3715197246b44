package utils

import (
	"fmt"
	"time"

	"neowatch/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	approachSheet = "Approaches"
	infoSheet     = "Info"
)

// CreateExcelFile создает Excel файл с результатами запроса
func CreateExcelFile(filepath string, rows []models.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(approachSheet); err != nil {
		return err
	}

	// Устанавливаем заголовки
	for i, header := range models.RowFields {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(approachSheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	f.SetRowStyle(approachSheet, 1, 1, headerStyle)

	numberStyle := getNumberStyle(f, "0.000000")

	// Заполняем данные, null остается пустой ячейкой
	for rowIdx, row := range rows {
		rowNum := rowIdx + 2

		f.SetCellValue(approachSheet, fmt.Sprintf("A%d", rowNum), row.DatetimeUTC)
		f.SetCellValue(approachSheet, fmt.Sprintf("B%d", rowNum), row.DistanceAU)
		f.SetCellValue(approachSheet, fmt.Sprintf("C%d", rowNum), row.VelocityKmS)
		f.SetCellValue(approachSheet, fmt.Sprintf("D%d", rowNum), row.Designation)
		if row.Name != nil {
			f.SetCellValue(approachSheet, fmt.Sprintf("E%d", rowNum), *row.Name)
		}
		if row.DiameterKm != nil {
			f.SetCellValue(approachSheet, fmt.Sprintf("F%d", rowNum), *row.DiameterKm)
		}
		if row.PotentiallyHazardous != nil {
			f.SetCellValue(approachSheet, fmt.Sprintf("G%d", rowNum), *row.PotentiallyHazardous)
		}
	}

	if len(rows) > 0 {
		last := len(rows) + 1
		f.SetCellStyle(approachSheet, "B2", fmt.Sprintf("C%d", last), numberStyle)

		// Красным выделяем потенциально опасные объекты
		hazardRule := []excelize.ConditionalFormatOptions{
			{
				Type:     "cell",
				Criteria: "==",
				Value:    "TRUE",
				Format:   getConditionalFormatStyle(f, "#FFCCCC"),
			},
		}
		if err := f.SetConditionalFormat(approachSheet, fmt.Sprintf("G2:G%d", last), hazardRule); err != nil {
			return err
		}
	}

	for i := 1; i <= len(models.RowFields); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(approachSheet, colName, colName, 20)
	}

	if err := createInfoSheet(f, rows); err != nil {
		return err
	}

	// Лист по умолчанию не нужен
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	if index, err := f.GetSheetIndex(approachSheet); err == nil {
		f.SetActiveSheet(index)
	}

	return f.SaveAs(filepath)
}

func getNumberStyle(f *excelize.File, format string) int {
	style, err := f.NewStyle(&excelize.Style{
		CustomNumFmt: &format,
	})
	if err != nil {
		return 0
	}
	return style
}

func createInfoSheet(f *excelize.File, rows []models.Row) error {
	if _, err := f.NewSheet(infoSheet); err != nil {
		return err
	}

	linked, hazardous := 0, 0
	for _, row := range rows {
		if row.PotentiallyHazardous != nil {
			linked++
			if *row.PotentiallyHazardous {
				hazardous++
			}
		}
	}

	metadata := [][2]interface{}{
		{"Report Generated", time.Now().UTC().Format(models.OutputLayout)},
		{"Total Approaches", len(rows)},
		{"Linked Approaches", linked},
		{"Hazardous Approaches", hazardous},
	}
	if dMin, dMax, ok := distanceRange(rows); ok {
		metadata = append(metadata, [2]interface{}{"Distance Range (au)", fmt.Sprintf("%g - %g", dMin, dMax)})
	}

	for i, kv := range metadata {
		f.SetCellValue(infoSheet, fmt.Sprintf("A%d", i+1), kv[0])
		f.SetCellValue(infoSheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	f.SetColWidth(infoSheet, "A", "B", 24)

	return nil
}

func distanceRange(rows []models.Row) (float64, float64, bool) {
	if len(rows) == 0 {
		return 0, 0, false
	}
	min, max := rows[0].DistanceAU, rows[0].DistanceAU
	for _, r := range rows {
		if r.DistanceAU < min {
			min = r.DistanceAU
		}
		if r.DistanceAU > max {
			max = r.DistanceAU
		}
	}
	return min, max, true
}

// getConditionalFormatStyle создает стиль для условного форматирования
func getConditionalFormatStyle(f *excelize.File, color string) *int {
	style, err := f.NewConditionalStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil
	}
	return &style
}
