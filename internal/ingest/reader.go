// Package ingest assembles labeled measurement tables from counts and
// sample-metadata files. This is the glue in front of the core: the engine
// itself never parses files.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"intersectomics/domain/table"
	"intersectomics/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader loads a biomolecule-by-sample numeric table from a CSV or XLSX
// file. The first column holds biomolecule identifiers, the remaining
// columns are samples.
type DataReader struct {
	filePath string
	fileType string
}

// NewDataReader creates a reader, inferring the file type from the
// extension.
func NewDataReader(filePath string) *DataReader {
	fileType := "csv"
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		fileType = "xlsx"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// RawTable is a parsed counts file before metadata labeling.
type RawTable struct {
	RowIDs    []string
	SampleIDs []string
	Values    [][]float64
}

// Read parses the counts file.
func (r *DataReader) Read() (*RawTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.IngestError(fmt.Sprintf("file not found: %s", r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.IngestError(fmt.Sprintf("%s needs a header row and at least one data row", r.filePath))
	}
	return parseRawTable(rows, r.filePath)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", r.filePath)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q of %s", sheet, r.filePath)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", r.filePath)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", r.filePath)
	}
	return rows, nil
}

func parseRawTable(rows [][]string, path string) (*RawTable, error) {
	header := rows[0]
	if len(header) < 2 {
		return nil, errors.IngestError(fmt.Sprintf("%s has no sample columns", path))
	}

	sampleIDs := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		sampleIDs = append(sampleIDs, strings.TrimSpace(h))
	}

	rowIDs := make([]string, 0, len(rows)-1)
	values := make([][]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, errors.IngestError(fmt.Sprintf("%s row %d has %d cells, expected %d", path, i+2, len(row), len(header)))
		}
		rowIDs = append(rowIDs, strings.TrimSpace(row[0]))

		vals := make([]float64, 0, len(row)-1)
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "%s row %d column %q", path, i+2, sampleIDs[j])
			}
			vals = append(vals, v)
		}
		values = append(values, vals)
	}

	return &RawTable{RowIDs: rowIDs, SampleIDs: sampleIDs, Values: values}, nil
}

// ReadSampleMetadata parses a sample-metadata CSV/XLSX: the first column is
// the sample identifier, every other column becomes a label level.
func ReadSampleMetadata(filePath string) (map[string]map[string]string, error) {
	r := NewDataReader(filePath)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, errors.IngestError(fmt.Sprintf("file not found: %s", filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.IngestError(fmt.Sprintf("%s needs a header row and at least one data row", filePath))
	}

	header := rows[0]
	labels := make(map[string]map[string]string, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, errors.IngestError(fmt.Sprintf("%s row %d has %d cells, expected %d", filePath, i+2, len(row), len(header)))
		}
		sampleID := strings.TrimSpace(row[0])
		m := make(map[string]string, len(header)-1)
		for j := 1; j < len(header); j++ {
			m[strings.TrimSpace(header[j])] = strings.TrimSpace(row[j])
		}
		labels[sampleID] = m
	}
	return labels, nil
}

// BuildTable joins a counts table with sample metadata into a validated
// MeasurementTable. Every counts column must have a metadata row.
func BuildTable(raw *RawTable, metadata map[string]map[string]string, replicateLevel string) (*table.MeasurementTable, error) {
	samples := make([]table.Sample, 0, len(raw.SampleIDs))
	for _, id := range raw.SampleIDs {
		labels, ok := metadata[id]
		if !ok {
			return nil, errors.IngestError(fmt.Sprintf("sample %q has no metadata row", id))
		}
		samples = append(samples, table.Sample{ID: id, Labels: labels})
	}
	return table.New(raw.RowIDs, samples, raw.Values, replicateLevel)
}

// LoadTable is the one-call path used by the CLI: counts + metadata files to
// a validated table.
func LoadTable(countsPath, metadataPath, replicateLevel string) (*table.MeasurementTable, error) {
	raw, err := NewDataReader(countsPath).Read()
	if err != nil {
		return nil, err
	}
	metadata, err := ReadSampleMetadata(metadataPath)
	if err != nil {
		return nil, err
	}
	return BuildTable(raw, metadata, replicateLevel)
}
