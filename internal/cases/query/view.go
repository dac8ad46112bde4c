// Package query serves the read side: cached identifier search over the
// local store and live, tenant-filtered views assembled from fresh upstream
// calls.
package query

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"lexsync/internal/cases/consolidate"
	"lexsync/internal/cases/models"
	registrymodels "lexsync/internal/registry/models"
	"lexsync/pkg/requestcontext"
)

var (
	// ErrEmptyIdentifier rejects blank search input before touching the store.
	ErrEmptyIdentifier = errors.New("identifier must not be empty")

	// ErrNoTenantIdentity means the caller carries neither an identifier nor a
	// usable name hint, so a live view cannot be scoped.
	ErrNoTenantIdentity = errors.New("caller has no tenant identity to filter by")

	// ErrForbidden means the caller is not a party to the requested case.
	ErrForbidden = errors.New("caller is not entitled to this case")
)

// Case classes exposed through the live tenant view. Everything else in the
// export belongs to other lines of business and is withheld.
var servedCaseClasses = map[string]bool{
	"EJECUTIVO":                         true,
	"EJECUTIVO SINGULAR":                true,
	"EJECUTIVO HIPOTECARIO":             true,
	"RESTITUCION DE INMUEBLE ARRENDADO": true,
	"VERBAL":                            true,
	"MONITORIO":                         true,
}

// minNameHintLength guards the name fallback against matching half the
// export on a short token.
const minNameHintLength = 4

// recentActionLimit caps the docket excerpt in a detail view.
const recentActionLimit = 10

// principalBook is the docket whose actions are surfaced in detail views.
const principalBook = "Principal"

// CaseReader is the store subset the view reads from.
type CaseReader interface {
	FindByPartyIdentifier(ctx context.Context, value string) ([]models.CaseRecord, error)
	FindByCaseID(ctx context.Context, caseID int64) (models.CaseRecord, error)
}

// Fetcher covers the upstream calls the live paths need.
type Fetcher interface {
	FetchExport(ctx context.Context, reportID int64) ([]registrymodels.ExportRow, error)
	FetchCase(ctx context.Context, caseID int64) (*registrymodels.CaseDetailPayload, error)
}

// View answers read queries. Identifier search runs against the local store
// and reflects the last completed sync; the tenant view and detail path hit
// the upstream live so they are never staler than the registry itself.
type View struct {
	store    CaseReader
	fetcher  Fetcher
	reportID int64
	logger   *slog.Logger
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithViewLogger sets the logger.
func WithViewLogger(logger *slog.Logger) ViewOption {
	return func(v *View) { v.logger = logger }
}

func NewView(store CaseReader, fetcher Fetcher, reportID int64, opts ...ViewOption) *View {
	v := &View{
		store:    store,
		fetcher:  fetcher,
		reportID: reportID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// FindByIdentifier searches the cached store for cases where either party
// identifier contains the given value.
func (v *View) FindByIdentifier(ctx context.Context, identifier string) ([]models.CaseRecord, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrEmptyIdentifier
	}
	return v.store.FindByPartyIdentifier(ctx, identifier)
}

// FindMine assembles a live view of the calling tenant's cases. It fetches
// the current export, consolidates it, keeps only served case classes and
// filters by the caller's identifier. The name hint is a fallback used only
// for records that carry no plaintiff identifier at all; identifier matches
// always win.
func (v *View) FindMine(ctx context.Context) ([]models.CaseRecord, error) {
	caller := requestcontext.Caller(ctx)

	callerID := digits(caller.TenantID)
	nameHint := normalizeNameHint(caller.TenantName)
	if len(nameHint) < minNameHintLength {
		nameHint = ""
	}
	if callerID == "" && nameHint == "" {
		return nil, ErrNoTenantIdentity
	}

	rows, err := v.fetcher.FetchExport(ctx, v.reportID)
	if err != nil {
		return nil, err
	}
	consolidated := consolidate.Rows(rows)

	var matched []models.CaseRecord
	for _, rec := range consolidated {
		if !servedCaseClasses[strings.ToUpper(strings.TrimSpace(rec.CaseClass))] {
			continue
		}
		if v.belongsToCaller(rec, callerID, nameHint) {
			matched = append(matched, rec)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CaseID < matched[j].CaseID })

	if v.logger != nil {
		v.logger.InfoContext(ctx, "live tenant view assembled",
			"tenant_id", caller.TenantID,
			"total_cases", len(consolidated),
			"matched", len(matched),
		)
	}
	return matched, nil
}

// belongsToCaller matches on plaintiff identifier first. The name hint only
// applies when the record has no plaintiff identifier, so a loose name can
// never pull in another tenant's identified cases.
func (v *View) belongsToCaller(rec models.CaseRecord, callerID, nameHint string) bool {
	recID := digits(rec.PlaintiffID)
	if recID != "" {
		return callerID != "" && strings.Contains(recID, callerID)
	}
	if nameHint == "" {
		return false
	}
	return strings.Contains(normalizeNameHint(rec.PlaintiffName), nameHint)
}

// FindByCaseID fetches the live detail for one case and enforces that the
// caller is a party to it. Admin and system callers bypass the entitlement
// check.
func (v *View) FindByCaseID(ctx context.Context, caseID int64) (*models.CaseDetail, error) {
	payload, err := v.fetcher.FetchCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	caller := requestcontext.Caller(ctx)
	if !caller.Admin() && !entitled(caller, payload.Subjects) {
		return nil, ErrForbidden
	}

	return buildDetail(payload), nil
}

// entitled reports whether the caller's identifier digit-overlaps any party
// on the case. Containment runs both ways so a stored identifier with a
// check digit suffix still matches the bare caller id and vice versa.
func entitled(caller requestcontext.Principal, subjects []registrymodels.Subject) bool {
	for _, subject := range subjects {
		if identifiersOverlap(caller.TenantID, subject.Identifier) {
			return true
		}
	}
	return false
}

func buildDetail(payload *registrymodels.CaseDetailPayload) *models.CaseDetail {
	detail := &models.CaseDetail{
		CaseID:         payload.CaseID,
		FilingNumber:   payload.FilingNumber,
		AlternateCode:  payload.AlternateCode,
		CaseClass:      payload.CaseClass,
		ProcedureStage: payload.ProcedureStage,
		Status:         payload.Status,
		Region:         payload.Region,
		Court:          payload.Court,
		OriginCourt:    payload.OriginCourt,
		Subjects:       make([]models.Subject, 0, len(payload.Subjects)),
		Attorneys:      make([]models.Attorney, 0, len(payload.Attorneys)),
		Measures:       make([]models.Measure, 0, len(payload.Measures)),
		CustomFields:   make([]models.CustomField, 0, len(payload.CustomFields)),
		RecentActions:  []models.Action{},
	}

	for _, s := range payload.Subjects {
		detail.Subjects = append(detail.Subjects, models.Subject{
			Role:       s.Role,
			Name:       s.Name,
			Identifier: s.Identifier,
		})
	}
	for _, a := range payload.Attorneys {
		detail.Attorneys = append(detail.Attorneys, models.Attorney{
			Name:       a.Name,
			Identifier: a.Identifier,
		})
	}
	for _, m := range payload.Measures {
		if strings.ToUpper(strings.TrimSpace(m.Effective)) == "N" {
			continue
		}
		detail.Measures = append(detail.Measures, models.Measure{
			AssetType:         m.AssetType,
			Subject:           m.Subject,
			MeasureType:       m.MeasureType,
			JudicialAppraisal: m.JudicialAppraisal,
			Notes:             m.Notes,
		})
	}
	for _, f := range payload.CustomFields {
		detail.CustomFields = append(detail.CustomFields, models.CustomField{
			Name:  f.Name,
			Value: f.Value,
		})
		if strings.Contains(strings.ToUpper(f.Name), "UBICACION CONTRATO") {
			detail.ContractLocation = f.Value
		}
	}

	actions := principalActions(payload.Actions)
	if len(actions) > 0 {
		latest := actions[0]
		detail.LatestAction = &latest
		detail.RecentActions = actions[:min(len(actions), recentActionLimit)]
	}
	return detail
}

// principalActions keeps the Principal docket only, newest first.
func principalActions(raw []registrymodels.Action) []models.Action {
	var actions []models.Action
	for _, a := range raw {
		if !strings.EqualFold(strings.TrimSpace(a.Book), principalBook) {
			continue
		}
		actions = append(actions, models.Action{
			Date: a.When(),
			Type: a.Type,
			Note: a.Note,
		})
	}
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Date.After(actions[j].Date) })
	return actions
}
