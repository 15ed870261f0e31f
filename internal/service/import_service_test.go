package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
)

func newImportService(store *fakePlateStore) *ImportService {
	reg := NewRegistryService(store, zerolog.Nop())
	return NewImportService(reg, zerolog.Nop())
}

func TestImportLocalizedHeaders(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)

	csvData := "車牌,姓名,部門\n" +
		"ABC-1234,王小明,工程部\n" +
		"xyz 999,李大華,行政部\n"

	report, err := svc.Import(context.Background(), strings.NewReader(csvData), "plates.csv")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Success != 2 || report.Failed != 0 || report.Total != 2 {
		t.Errorf("report = %+v, want 2 success / 0 failed", report)
	}
	if _, ok := store.records["ABC1234"]; !ok {
		t.Error("registry missing canonical ABC1234")
	}
	if rec, ok := store.records["XYZ999"]; !ok || rec.OwnerName != "李大華" {
		t.Errorf("registry XYZ999 = %+v, want owner 李大華", rec)
	}
}

func TestImportReconciliationCounts(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)
	ctx := context.Background()

	// Seed two existing records; the import repeats them plus three new rows.
	if err := store.Insert(ctx, "AAA111", "n", "d"); err != nil {
		t.Fatal(err)
	}
	if err := store.Insert(ctx, "BBB222", "n", "d"); err != nil {
		t.Fatal(err)
	}

	csvData := "plate,name,department\n" +
		"AAA-111,a,d\n" +
		"bbb 222,b,d\n" +
		"CCC333,c,d\n" +
		"DDD444,d,d\n" +
		"EEE555,e,d\n"

	report, err := svc.Import(ctx, strings.NewReader(csvData), "plates.csv")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Total != 5 || report.Success != 3 || report.Failed != 2 {
		t.Errorf("report = %+v, want total 5 / success 3 / failed 2", report)
	}
	if len(store.records) != 5 {
		t.Errorf("registry has %d records, want 5 (grew by exactly N-M)", len(store.records))
	}
}

func TestImportDuplicateOnlyRow(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)
	ctx := context.Background()

	if err := store.Insert(ctx, "ABC1234", "王小明", "工程部"); err != nil {
		t.Fatal(err)
	}

	csvData := "車牌,姓名,部門\nABC-1234,someone,else\n"
	report, err := svc.Import(ctx, strings.NewReader(csvData), "plates.csv")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Success != 0 || report.Failed != 1 {
		t.Errorf("report = %+v, want success 0 / failed 1", report)
	}
	// The existing record must not be overwritten.
	if rec := store.records["ABC1234"]; rec.OwnerName != "王小明" {
		t.Errorf("owner after duplicate import = %q, want 王小明", rec.OwnerName)
	}
}

func TestImportContinuesAfterDuplicates(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)
	ctx := context.Background()

	if err := store.Insert(ctx, "AAA111", "n", "d"); err != nil {
		t.Fatal(err)
	}

	// A duplicate in the middle must not stop the rows after it.
	csvData := "plate,name,department\n" +
		"BBB222,b,d\n" +
		"AAA111,dup,d\n" +
		"CCC333,c,d\n"

	report, err := svc.Import(ctx, strings.NewReader(csvData), "plates.csv")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Success != 2 || report.Failed != 1 {
		t.Errorf("report = %+v, want success 2 / failed 1", report)
	}
	if _, ok := store.records["CCC333"]; !ok {
		t.Error("row after the duplicate was not processed")
	}
}

func TestImportMissingColumnRejectedWholesale(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)

	// No department column.
	csvData := "plate,name\nABC1234,someone\n"
	_, err := svc.Import(context.Background(), strings.NewReader(csvData), "plates.csv")
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("Import() error = %v, want ErrMissingColumns", err)
	}
	if len(store.records) != 0 {
		t.Errorf("registry has %d records, want 0 (no row may be processed)", len(store.records))
	}
}

func TestImportBig5Fallback(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)

	utf8CSV := "車牌,姓名,部門\nABC-1234,王小明,工程部\n"
	big5CSV, err := traditionalchinese.Big5.NewEncoder().String(utf8CSV)
	if err != nil {
		t.Fatalf("failed to build Big5 fixture: %v", err)
	}

	report, err := svc.Import(context.Background(), strings.NewReader(big5CSV), "legacy.csv")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Success != 1 {
		t.Errorf("report = %+v, want 1 success", report)
	}
	if rec, ok := store.records["ABC1234"]; !ok || rec.OwnerName != "王小明" {
		t.Errorf("registry ABC1234 = %+v, want owner 王小明 decoded from Big5", rec)
	}
}

func TestImportUndecodableFile(t *testing.T) {
	svc := newImportService(newFakePlateStore())

	// Invalid as UTF-8 and as Big5 (0xFF is not a valid Big5 lead byte here).
	data := []byte{0xFF, 0x00, 0xFF, 0x00}
	_, err := svc.Import(context.Background(), bytes.NewReader(data), "garbage.csv")
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("Import() error = %v, want ErrUndecodable", err)
	}
}

func TestImportXLSX(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"車牌", "姓名", "部門"},
		{"ABC-1234", "王小明", "工程部"},
		{"DEF5678", "李大華", "行政部"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to build xlsx fixture: %v", err)
	}

	report, err := svc.Import(context.Background(), buf, "plates.xlsx")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Success != 2 || report.Failed != 0 {
		t.Errorf("report = %+v, want 2 success", report)
	}
	if _, ok := store.records["DEF5678"]; !ok {
		t.Error("registry missing DEF5678 from xlsx import")
	}
}

func TestImportBlankRowsSkipped(t *testing.T) {
	store := newFakePlateStore()
	svc := newImportService(store)

	csvData := "plate,name,department\n" +
		"AAA111,a,d\n" +
		",,\n" +
		"BBB222,b,d\n"

	report, err := svc.Import(context.Background(), strings.NewReader(csvData), "plates.csv")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if report.Total != 2 || report.Success != 2 {
		t.Errorf("report = %+v, want total 2 / success 2", report)
	}
}
