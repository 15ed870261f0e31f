package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"

	"lpr-service/internal/domain/registry"
)

// Header spellings accepted for each required logical column. Matching is
// case-insensitive after trimming.
var (
	plateHeaders = []string{"plate", "plate_number", "license_plate", "車牌", "车牌", "車牌號碼"}
	nameHeaders  = []string{"name", "owner", "owner_name", "姓名"}
	deptHeaders  = []string{"department", "dept", "部門", "部门", "部門/職稱"}
)

// ImportService streams tabular records into the registry. Every row goes
// through RegistryService.AddPlate, so bulk import and single add share the
// same normalization and uniqueness enforcement.
type ImportService struct {
	reg *RegistryService
	log zerolog.Logger
}

func NewImportService(reg *RegistryService, log zerolog.Logger) *ImportService {
	return &ImportService{
		reg: reg,
		log: log,
	}
}

// Import parses the uploaded file (CSV, or XLSX by extension) and attempts one
// insert per body row. Duplicate canonical plates are counted as failures and
// processing continues; the report covers every row. A missing required
// column aborts the whole run before any row is touched.
func (s *ImportService) Import(ctx context.Context, r io.Reader, filename string) (registry.ImportReport, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		rows, err = readXLSX(r)
	} else {
		rows, err = readCSV(r)
	}
	if err != nil {
		return registry.ImportReport{}, err
	}

	if len(rows) == 0 {
		return registry.ImportReport{}, fmt.Errorf("%w: file has no header row", ErrMissingColumns)
	}

	plateCol, nameCol, deptCol, err := resolveColumns(rows[0])
	if err != nil {
		return registry.ImportReport{}, err
	}

	report := registry.ImportReport{}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		report.Total++

		imported := registry.ImportRow{
			Plate:      cell(row, plateCol),
			Name:       cell(row, nameCol),
			Department: cell(row, deptCol),
		}

		_, err := s.reg.AddPlate(ctx, imported.Plate, imported.Name, imported.Department)
		switch {
		case err == nil:
			report.Success++
		case errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrInvalidInput):
			// Expected per-row outcomes; reconciliation skips the row and
			// moves on.
			report.Failed++
		default:
			return registry.ImportReport{}, fmt.Errorf("import aborted at row %d: %w", report.Total, err)
		}
	}

	s.log.Info().
		Str("file", filename).
		Int("total", report.Total).
		Int("success", report.Success).
		Int("failed", report.Failed).
		Msg("bulk import finished")

	return report, nil
}

// readCSV decodes the raw bytes (UTF-8 first, Big5 fallback) and parses them
// as comma-separated values. Records may have varying field counts; arity is
// handled per cell.
func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMissingColumns)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read xlsx rows: %w", err)
	}
	return rows, nil
}

// decodeText returns the file contents as UTF-8. Valid UTF-8 passes through;
// otherwise the bytes are decoded as Big5. When the fallback also produces
// replacement runes the file is undecodable.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := traditionalchinese.Big5.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", fmt.Errorf("%w: not valid UTF-8 or Big5", ErrUndecodable)
	}
	return string(decoded), nil
}

// resolveColumns maps the header row to the three required column indexes.
// All three must be present or the import is rejected wholesale.
func resolveColumns(header []string) (plateCol, nameCol, deptCol int, err error) {
	plateCol = findColumn(header, plateHeaders)
	nameCol = findColumn(header, nameHeaders)
	deptCol = findColumn(header, deptHeaders)

	var missing []string
	if plateCol < 0 {
		missing = append(missing, "plate")
	}
	if nameCol < 0 {
		missing = append(missing, "name")
	}
	if deptCol < 0 {
		missing = append(missing, "department")
	}
	if len(missing) > 0 {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return plateCol, nameCol, deptCol, nil
}

func findColumn(header []string, accepted []string) int {
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for _, a := range accepted {
			if normalized == strings.ToLower(a) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
