package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/arxivrag/internal/domain"
)

// LoadCSV reads all documents from an arXiv CSV file. The file must carry at
// least the columns titles, abstracts, and terms; column order is free.
func LoadCSV(path string) ([]domain.Document, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	docs, err := ReadDocuments(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return docs, nil
}

// ReadDocuments parses comma-delimited UTF-8 rows from r into documents.
// name tags the source identifiers, "<name>:<row>" with 1-based data rows.
func ReadDocuments(r io.Reader, name string) ([]domain.Document, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // header decides; ragged rows error below

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	row := 0
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++

		rec, err := recordFromFields(fields, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		doc, err := BuildDocument(rec, fmt.Sprintf("%s:%d", name, row))
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// columns holds the resolved field indices for the required CSV columns.
type columns struct {
	title    int
	abstract int
	terms    int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{title: -1, abstract: -1, terms: -1}
	for i, name := range header {
		switch name {
		case "titles":
			cols.title = i
		case "abstracts":
			cols.abstract = i
		case "terms":
			cols.terms = i
		}
	}
	if cols.title < 0 || cols.abstract < 0 || cols.terms < 0 {
		return columns{}, fmt.Errorf("csv header must contain titles, abstracts, terms; got %v", header)
	}
	return cols, nil
}

func recordFromFields(fields []string, cols columns) (Record, error) {
	max := cols.title
	if cols.abstract > max {
		max = cols.abstract
	}
	if cols.terms > max {
		max = cols.terms
	}
	if len(fields) <= max {
		return Record{}, fmt.Errorf("expected at least %d fields, got %d", max+1, len(fields))
	}

	return Record{
		Title:    fields[cols.title],
		Abstract: fields[cols.abstract],
		Terms:    fields[cols.terms],
	}, nil
}
