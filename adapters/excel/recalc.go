package excel

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Recalculator evaluates formulas in-process with excelize's calculation
// engine and writes a data-only copy: each formula cell holds its result.
type Recalculator struct {
	config ExcelConfig
}

// NewRecalculator creates an in-process recalculator
func NewRecalculator(config ExcelConfig) *Recalculator {
	return &Recalculator{config: config}
}

// Mode implements ports.Recalculator
func (r *Recalculator) Mode() string { return "excelize" }

// Recalculate implements ports.Recalculator. Cells whose formula the engine
// cannot evaluate keep the formula and its previously cached value.
func (r *Recalculator) Recalculate(ctx context.Context, src, workDir string) (string, error) {
	if strings.EqualFold(filepath.Ext(src), ".xls") {
		return "", fmt.Errorf("excelize cannot recalculate legacy .xls file %s", src)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for recalculation: %w", src, err)
	}
	defer f.Close()

	evaluated, failed := 0, 0
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		cells, err := sheetCells(f, name)
		if err != nil {
			return "", err
		}
		for _, cell := range cells {
			ok, err := recalcCell(f, name, cell)
			if err != nil {
				log.Printf("[ExcelRecalc] %s!%s: %v", name, cell, err)
				failed++
				continue
			}
			if ok {
				evaluated++
			}
		}
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := filepath.Join(workDir, base+r.config.ResultExtension)
	if err := f.SaveAs(out); err != nil {
		return "", fmt.Errorf("failed to save recalculated copy: %w", err)
	}
	log.Printf("[ExcelRecalc] %s: %d formulas evaluated, %d kept cached in %.2fms",
		filepath.Base(src), evaluated, failed, float64(time.Since(startTime).Nanoseconds())/1e6)
	return out, nil
}

// sheetCells lists the cells each stored row actually carries. Formula cells
// are reported even without a cached value. The declared <dimension> is
// ignored: it is whatever the writer claimed and may span the whole grid.
func sheetCells(f *excelize.File, name string) ([]string, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	var cells []string
	for r, row := range rows {
		for c := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

// recalcCell replaces one formula with its evaluated result. It reports
// false for cells without a formula.
func recalcCell(f *excelize.File, name, cell string) (bool, error) {
	formula, err := f.GetCellFormula(name, cell)
	if err != nil || formula == "" {
		return false, err
	}
	value, err := f.CalcCellValue(name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return false, err
	}

	switch {
	case value == "TRUE" || value == "FALSE":
		err = f.SetCellBool(name, cell, value == "TRUE")
	default:
		if n, perr := strconv.ParseFloat(value, 64); perr == nil {
			err = f.SetCellFloat(name, cell, n, -1, 64)
		} else {
			err = f.SetCellStr(name, cell, value)
		}
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
