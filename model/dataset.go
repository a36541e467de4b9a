package model

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/carepath/helper"
)

// Dataset is an uploaded table with named columns, values kept as text
type Dataset struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column returns all values of the named column, nil if it does not exist
func (d *Dataset) Column(name string) []string {
	index := -1
	for i, c := range d.Columns {
		if c == name {
			index = i
			break
		}
	}
	if index < 0 {
		return nil
	}

	values := make([]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		if index < len(row) {
			values = append(values, row[index])
		} else {
			values = append(values, "")
		}
	}
	return values
}

// NewDatasetFromCSV reads a dataset with a header row
func NewDatasetFromCSV(r io.Reader, name string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, helper.NewError("read dataset header", errors.New("dataset is empty"))
		}
		return nil, helper.NewError("read dataset header", err)
	}

	dataset := &Dataset{Name: name}
	for _, h := range header {
		dataset.Columns = append(dataset.Columns, strings.TrimSpace(h))
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, helper.NewError("read dataset row", err)
		}
		dataset.Rows = append(dataset.Rows, record)
	}

	return dataset, nil
}

// NewDatasetFromFile reads a CSV dataset from disk, named after the file
func NewDatasetFromFile(filePath string) (*Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	filename := filepath.Base(filePath)
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	if name == "" {
		name = filename
	}

	return NewDatasetFromCSV(file, name)
}
