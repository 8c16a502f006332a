// Package excel exports pipeline results as an .xlsx workbook for
// downstream inspection and visualization.
package excel

import (
	"fmt"

	"intersectomics/ports"

	"github.com/xuri/excelize/v2"
)

// Exporter implements ports.ResultsExporter with an Excel workbook: one
// sheet for the consensus edge list, one for the community assignment.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the run to path.
func (e *Exporter) Export(run *ports.RunRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const edgeSheet = "Consensus Edges"
	const communitySheet = "Communities"

	idx, err := f.NewSheet(edgeSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headers := []string{"Biomolecule A", "Biomolecule B", "Weight"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(edgeSheet, cell, h); err != nil {
			return err
		}
	}
	for i, edge := range run.Consensus.Edges() {
		row := i + 2
		values := []interface{}{edge.A, edge.B, edge.Weight}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(edgeSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet(communitySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	for i, h := range []string{"Biomolecule", "Community"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(communitySheet, cell, h); err != nil {
			return err
		}
	}
	row := 2
	for _, id := range run.Consensus.Nodes() {
		label, ok := run.Communities[id]
		if !ok {
			continue
		}
		cellA, _ := excelize.CoordinatesToCellName(1, row)
		cellB, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(communitySheet, cellA, id); err != nil {
			return err
		}
		if err := f.SetCellValue(communitySheet, cellB, label); err != nil {
			return err
		}
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
