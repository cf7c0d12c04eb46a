package models

// Field names a user-editable metadata field of a renamable file.
type Field string

const (
	FieldDistributor    Field = "distributor"
	FieldDocumentNumber Field = "documentNumber"
	FieldDate           Field = "date"
)

// Fields lists the metadata fields in filename order.
var Fields = []Field{FieldDistributor, FieldDocumentNumber, FieldDate}

// Metadata holds the user-entered naming fields for one renamable file.
type Metadata struct {
	Distributor    string `json:"distributor" yaml:"distributor"`
	DocumentNumber string `json:"documentNumber" yaml:"document_number"`
	Date           string `json:"date" yaml:"date"`
}

// Get returns the value of a field. Unknown fields read as empty.
func (m *Metadata) Get(f Field) string {
	switch f {
	case FieldDistributor:
		return m.Distributor
	case FieldDocumentNumber:
		return m.DocumentNumber
	case FieldDate:
		return m.Date
	}
	return ""
}

// Set assigns a field and reports whether the field name was known.
func (m *Metadata) Set(f Field, value string) bool {
	switch f {
	case FieldDistributor:
		m.Distributor = value
	case FieldDocumentNumber:
		m.DocumentNumber = value
	case FieldDate:
		m.Date = value
	default:
		return false
	}
	return true
}

// Status is the derived readiness of a renamable file's metadata.
type Status string

const (
	StatusReady   Status = "ready"
	StatusMissing Status = "missing"
	StatusInvalid Status = "invalid"
)

// StatusResult is a status plus the message explaining a non-ready status.
type StatusResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Ready reports whether the result is StatusReady.
func (r StatusResult) Ready() bool {
	return r.Status == StatusReady
}
