package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BerniceZTT/cbam_end/models"
)

// Format spreadsheet file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const xlsxSheet = "Sheet1"

// ErrUnsupportedFormat file format is neither csv nor xlsx
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrMissingColumn a required header is missing
var ErrMissingColumn = errors.New("missing required column")

// Spreadsheet headers
var (
	SupplierHeaders = []string{"ID", "Name", "Country", "Contact Person", "Contact Email", "Status", "Notes"}
	ImportHeaders   = []string{"ID", "Supplier ID", "Manufacturer", "CN Code", "Quantity", "Direct SEE", "Indirect SEE", "Date", "Quarter"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"2006/01/02",
	"01-02-06",
}

// ParseFormat resolves a format name or a file name to a Format.
func ParseFormat(name string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		ext = strings.ToLower(strings.TrimSpace(name))
	}
	switch ext {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ContentType returns the HTTP content type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ReadTable reads all rows of the first sheet (xlsx) or the file (csv).
func ReadTable(r io.Reader, format Format) ([][]string, error) {
	switch format {
	case FormatCSV:
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return rows, nil
	case FormatXLSX:
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("open xlsx: %w", err)
		}
		defer f.Close()
		sheet := f.GetSheetName(0)
		if sheet == "" {
			return nil, nil
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read xlsx sheet %s: %w", sheet, err)
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// WriteTable writes a header and rows in the given format.
func WriteTable(w io.Writer, format Format, header []string, rows [][]string) error {
	switch format {
	case FormatCSV:
		writer := csv.NewWriter(w)
		if err := writer.Write(header); err != nil {
			return err
		}
		if err := writer.WriteAll(rows); err != nil {
			return err
		}
		return writer.Error()
	case FormatXLSX:
		f := excelize.NewFile()
		defer f.Close()
		for i, row := range append([][]string{header}, rows...) {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow(xlsxSheet, cell, &values); err != nil {
				return fmt.Errorf("write xlsx row %d: %w", i+1, err)
			}
		}
		return f.Write(w)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// SupplierRecords converts suppliers to spreadsheet rows.
func SupplierRecords(suppliers []models.Supplier) [][]string {
	rows := make([][]string, 0, len(suppliers))
	for _, s := range suppliers {
		rows = append(rows, []string{s.ID, s.Name, s.Country, s.ContactPerson, s.ContactEmail, string(s.Status), s.Notes})
	}
	return rows
}

// ImportRecords converts goods imports to spreadsheet rows.
func ImportRecords(imports []models.GoodsImport) [][]string {
	rows := make([][]string, 0, len(imports))
	for _, g := range imports {
		rows = append(rows, []string{
			g.ID,
			g.SupplierID,
			g.ManufacturerName,
			g.CNCode,
			formatFloat(g.Quantity),
			formatFloat(g.DirectSEE),
			formatFloat(g.IndirectSEE),
			g.Date.Format("2006-01-02"),
			QuarterLabel(g.Date),
		})
	}
	return rows
}

// ParseSupplierTable parses supplier rows. Row errors do not stop the parse.
// An ID column is kept so exported files can be loaded again with their linkage.
func ParseSupplierTable(table [][]string) ([]models.Supplier, []models.RowError, error) {
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("%w: Name", ErrMissingColumn)
	}
	cols := headerIndex(table[0])
	if _, ok := cols["name"]; !ok {
		return nil, nil, fmt.Errorf("%w: Name", ErrMissingColumn)
	}

	var suppliers []models.Supplier
	var rowErrors []models.RowError
	for i, record := range table[1:] {
		rowNum := i + 2
		if blank(record) {
			continue
		}
		get := cellGetter(cols, record)
		name := get("name")
		if len(name) < 2 {
			rowErrors = append(rowErrors, models.RowError{Row: rowNum, Message: "name must be at least 2 characters"})
			continue
		}
		status, err := ParseSupplierStatus(get("status"))
		if err != nil {
			rowErrors = append(rowErrors, models.RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		suppliers = append(suppliers, models.Supplier{
			ID:            get("id"),
			Name:          name,
			Country:       get("country"),
			ContactPerson: get("contact person"),
			ContactEmail:  get("contact email"),
			Status:        status,
			Notes:         get("notes"),
		})
	}
	return suppliers, rowErrors, nil
}

// ParsedImport goods import row together with its spreadsheet row number
type ParsedImport struct {
	Row    int
	Import models.GoodsImport
}

// ParseImportTable parses goods import rows. Supplier linkage is resolved separately.
func ParseImportTable(table [][]string) ([]ParsedImport, []models.RowError, error) {
	if len(table) == 0 {
		return nil, nil, fmt.Errorf("%w: Date", ErrMissingColumn)
	}
	cols := headerIndex(table[0])
	for _, required := range []string{"date", "cn code"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	_, hasID := cols["supplier id"]
	_, hasName := cols["manufacturer"]
	if !hasID && !hasName {
		return nil, nil, fmt.Errorf("%w: Supplier ID or Manufacturer", ErrMissingColumn)
	}

	var parsed []ParsedImport
	var rowErrors []models.RowError
	for i, record := range table[1:] {
		rowNum := i + 2
		if blank(record) {
			continue
		}
		get := cellGetter(cols, record)
		row := models.GoodsImport{
			SupplierID:       get("supplier id"),
			ManufacturerName: get("manufacturer"),
			CNCode:           get("cn code"),
		}
		if row.CNCode == "" {
			rowErrors = append(rowErrors, models.RowError{Row: rowNum, Message: "CN code is required"})
			continue
		}
		date, err := ParseDate(get("date"))
		if err != nil {
			rowErrors = append(rowErrors, models.RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		row.Date = date

		var numErr error
		for _, field := range []struct {
			column string
			target *float64
		}{
			{"quantity", &row.Quantity},
			{"direct see", &row.DirectSEE},
			{"indirect see", &row.IndirectSEE},
		} {
			v, err := ParseNumber(get(field.column))
			if err != nil {
				numErr = fmt.Errorf("%s: %w", field.column, err)
				break
			}
			*field.target = v
		}
		if numErr != nil {
			rowErrors = append(rowErrors, models.RowError{Row: rowNum, Message: numErr.Error()})
			continue
		}
		NormalizeImport(&row)
		parsed = append(parsed, ParsedImport{Row: rowNum, Import: row})
	}
	return parsed, rowErrors, nil
}

// ParseSupplierStatus accepts the canonical value or a human spelling such as
// "Emission data received" or "emission-data-received". Empty means none.
func ParseSupplierStatus(value string) (models.SupplierStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return models.SupplierStatusNone, nil
	}
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	status := models.SupplierStatus(normalized)
	if !status.Valid() {
		return "", fmt.Errorf("unknown supplier status %q", value)
	}
	return status, nil
}

// maxExcelSerial first serial after 9999-12-31
const maxExcelSerial = 2958466

// ParseDate parses the supported date layouts and Excel serial dates.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("date is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return CalendarDate(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 && serial < maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return CalendarDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// ParseNumber parses a non-negative decimal number up to models.MaxImportValue;
// empty cells are zero. A lone comma is a decimal separator.
func ParseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if strings.Contains(value, ",") && !strings.Contains(value, ".") {
		value = strings.ReplaceAll(value, ",", ".")
	} else {
		value = strings.ReplaceAll(value, ",", "")
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative number %q", value)
	}
	if v > models.MaxImportValue {
		return 0, fmt.Errorf("number %q exceeds %g", value, models.MaxImportValue)
	}
	return v, nil
}

func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func cellGetter(cols map[string]int, record []string) func(string) string {
	return func(column string) string {
		i, ok := cols[column]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
