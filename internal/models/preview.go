package models

// CSVPreview is the tabular view of a delimited text file.
type CSVPreview struct {
	Name      string     `json:"name" msgpack:"name"`
	Headers   []string   `json:"headers" msgpack:"headers"`
	Rows      [][]string `json:"rows" msgpack:"rows"`
	TotalRows int        `json:"totalRows" msgpack:"totalRows"`
	Truncated bool       `json:"truncated" msgpack:"truncated"`
}
