// Package consolidate folds the flat, one-row-per-party export into one
// canonical record per case.
package consolidate

import (
	"strings"

	"lexsync/internal/cases/models"
	registrymodels "lexsync/internal/registry/models"
)

// Rows consolidates export rows into a mapping keyed by case id. Single pass
// over an accumulator map: the first row seen for a case seeds its case-level
// fields and later rows only ever contribute party fields. Rows with a
// missing or non-numeric case id are dropped without ceremony (best-effort
// import). Iteration order of the result is not guaranteed.
func Rows(rows []registrymodels.ExportRow) map[int64]models.CaseRecord {
	out := make(map[int64]models.CaseRecord, len(rows))
	for _, row := range rows {
		caseID, ok := row.ParsedCaseID()
		if !ok {
			continue
		}

		rec, seen := out[caseID]
		if !seen {
			rec = models.CaseRecord{
				CaseID:         caseID,
				FilingNumber:   cleanFilingNumber(row.FilingNumber),
				AlternateCode:  strings.TrimSpace(row.AlternateCode),
				CaseClass:      strings.TrimSpace(row.CaseClass),
				ProcedureStage: strings.TrimSpace(row.ProcedureStage),
			}
		}

		switch strings.ToUpper(strings.TrimSpace(row.PartyRole)) {
		case registrymodels.PartyRolePlaintiff:
			rec.PlaintiffName = strings.TrimSpace(row.PartyName)
			rec.PlaintiffID = strings.TrimSpace(row.PartyIdentifier)
		case registrymodels.PartyRoleDefendant:
			rec.DefendantName = strings.TrimSpace(row.PartyName)
			rec.DefendantID = strings.TrimSpace(row.PartyIdentifier)
		}
		// Unrecognized roles still seed case-level fields above.

		out[caseID] = rec
	}
	return out
}

// cleanFilingNumber strips the stray quotes some export rows carry around the
// filing number.
func cleanFilingNumber(v string) string {
	return strings.TrimSpace(strings.ReplaceAll(v, "'", ""))
}
