package naming

import (
	"regexp"
	"strings"

	"github.com/docdrop/backend/internal/models"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Status messages. The first failing check decides which one is reported.
const (
	MsgNoMetadata    = "No metadata"
	MsgMissingFields = "Missing fields"
	MsgInvalidDate   = "Invalid date format"
	MsgInvalidDist   = "Invalid distributor"
	MsgInvalidDocNum = "Invalid document number"
	MsgInvalidPrefix = "Invalid prefix"
)

// ResolveStatus classifies a file's metadata. Checks run in a fixed order and
// the first failure wins; callers rely on that order for the message.
// The prefix is only checked when includePrefix is set and it is non-empty.
func ResolveStatus(rec *models.Metadata, includePrefix bool, prefix string) models.StatusResult {
	if rec == nil {
		return models.StatusResult{Status: models.StatusMissing, Message: MsgNoMetadata}
	}

	for _, f := range models.Fields {
		if strings.TrimSpace(rec.Get(f)) == "" {
			return models.StatusResult{Status: models.StatusMissing, Message: MsgMissingFields}
		}
	}

	if !datePattern.MatchString(strings.TrimSpace(rec.Date)) {
		return models.StatusResult{Status: models.StatusInvalid, Message: MsgInvalidDate}
	}
	if !IsValidSegment(rec.Distributor) {
		return models.StatusResult{Status: models.StatusInvalid, Message: MsgInvalidDist}
	}
	if !IsValidSegment(rec.DocumentNumber) {
		return models.StatusResult{Status: models.StatusInvalid, Message: MsgInvalidDocNum}
	}
	if includePrefix && prefix != "" && !IsValidSegment(prefix) {
		return models.StatusResult{Status: models.StatusInvalid, Message: MsgInvalidPrefix}
	}

	return models.StatusResult{Status: models.StatusReady}
}
