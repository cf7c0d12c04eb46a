package naming

import "github.com/docdrop/backend/internal/models"

// Candidate is a renamable file submitted to the export gate.
type Candidate struct {
	ID       string
	Name     string
	Metadata *models.Metadata
}

// CheckExport evaluates every renamable file with the prefix included.
// Export is allowed only when all are ready; otherwise the lowest-index file
// that is not ready is reported.
func CheckExport(candidates []Candidate, prefix string) models.ExportGate {
	for i, c := range candidates {
		st := ResolveStatus(c.Metadata, true, prefix)
		if !st.Ready() {
			return models.ExportGate{
				Ready: false,
				FirstBlocked: &models.BlockedFile{
					FileID: c.ID,
					Name:   c.Name,
					Index:  i,
					Status: st,
				},
			}
		}
	}
	return models.ExportGate{Ready: true}
}
