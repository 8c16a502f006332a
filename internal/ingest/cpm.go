package ingest

import (
	"math"
)

// FilterLowExpression drops rows that fail a counts-per-million cutoff in
// too many samples: a row survives only if log2(CPM+1) reaches minLogCPM in
// at least minFraction of the samples. Row order is preserved.
func FilterLowExpression(raw *RawTable, minLogCPM, minFraction float64) *RawTable {
	nSamples := len(raw.SampleIDs)
	totals := make([]float64, nSamples)
	for _, row := range raw.Values {
		for j, v := range row {
			totals[j] += v
		}
	}

	rowIDs := make([]string, 0, len(raw.RowIDs))
	values := make([][]float64, 0, len(raw.Values))
	for i, row := range raw.Values {
		expressed := 0
		for j, v := range row {
			if totals[j] == 0 {
				continue
			}
			cpm := v / totals[j] * 1e6
			if math.Log2(cpm+1) >= minLogCPM {
				expressed++
			}
		}
		if float64(expressed) >= minFraction*float64(nSamples) {
			rowIDs = append(rowIDs, raw.RowIDs[i])
			values = append(values, row)
		}
	}

	return &RawTable{RowIDs: rowIDs, SampleIDs: raw.SampleIDs, Values: values}
}
