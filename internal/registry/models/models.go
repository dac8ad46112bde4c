package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// AccessToken is the single upstream bearer credential. It is never mutated in
// place; a refresh replaces it wholesale.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// ValidFor reports whether the token is usable for at least margin from now.
func (t AccessToken) ValidFor(now time.Time, margin time.Duration) bool {
	return t.Value != "" && now.Add(margin).Before(t.ExpiresAt)
}

// Party roles tracked in the export. Anything else contributes no party data.
const (
	PartyRolePlaintiff = "DEMANDANTE"
	PartyRoleDefendant = "DEMANDADO"
)

// ExportRow is one row of the bulk export, one row per case-party, with the
// vendor's spaced column headers. It exists only for the duration of a sync
// pass and is never persisted.
type ExportRow struct {
	CaseID          json.RawMessage `json:"ID Proceso"`
	PartyRole       string          `json:"Tipo Sujeto"`
	PartyName       string          `json:"Sujeto - Nombre"`
	PartyIdentifier string          `json:"Sujeto - Identificacion"`
	FilingNumber    string          `json:"Numero Radicacion"`
	AlternateCode   string          `json:"Codigo Alterno"`
	CaseClass       string          `json:"Clase Proceso"`
	ProcedureStage  string          `json:"Etapa Procesal"`
}

// ParsedCaseID returns the rounded numeric case id. The second return is false
// when the column is missing or not numeric; such rows are dropped during
// consolidation.
func (r ExportRow) ParsedCaseID() (int64, bool) {
	if len(r.CaseID) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(r.CaseID, &f); err == nil {
		return int64(math.Round(f)), true
	}
	var s string
	if err := json.Unmarshal(r.CaseID, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return int64(math.Round(f)), true
		}
	}
	return 0, false
}

// CaseDetailPayload is the upstream single-case detail shape returned by
// GET /Procesos/GetProceso.
type CaseDetailPayload struct {
	CaseID         int64         `json:"ProcesoId"`
	FilingNumber   string        `json:"Radicacion"`
	AlternateCode  string        `json:"CodigoAlterno"`
	CaseClass      string        `json:"ClaseProceso"`
	ProcedureStage string        `json:"Etapa"`
	Status         string        `json:"Estado"`
	Region         string        `json:"Regional"`
	Court          string        `json:"DespachoConocimiento"`
	OriginCourt    string        `json:"DespachoOrigen"`
	Subjects       []Subject     `json:"Sujetos"`
	Attorneys      []Attorney    `json:"Abogados"`
	Measures       []Measure     `json:"MedidasCautelares"`
	Actions        []Action      `json:"Actuaciones"`
	CustomFields   []CustomField `json:"CamposPersonalizados"`
}

// Subject is a party attached to the case in the detail payload.
type Subject struct {
	Role       string `json:"TipoSujeto"`
	Name       string `json:"Nombre"`
	Identifier string `json:"NumeroIdentificacion"`
}

// Attorney is counsel of record in the detail payload.
type Attorney struct {
	Name       string `json:"Nombre"`
	Identifier string `json:"NumeroIdentificacion"`
}

// Measure is a precautionary measure. Effective carries "N" when the measure
// was marked ineffective upstream.
type Measure struct {
	AssetType         string `json:"TipoBien"`
	Subject           string `json:"Sujeto"`
	MeasureType       string `json:"TipoMedida"`
	Effective         string `json:"MedidaEfectiva"`
	JudicialAppraisal string `json:"AvaluoJudicial"`
	Notes             string `json:"Observaciones"`
}

// CustomField is a free-form attribute from the detail payload.
type CustomField struct {
	Name  string `json:"Nombre"`
	Value string `json:"Valor"`
}

// Action is a procedural action entry. Book names the docket it belongs to.
type Action struct {
	Date string `json:"FechaActuacion"`
	Type string `json:"Tipo"`
	Book string `json:"Libro"`
	Note string `json:"Observacion"`
}

var actionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// When parses the action date for ordering. Unparseable dates sort oldest.
func (a Action) When() time.Time {
	for _, layout := range actionDateLayouts {
		if t, err := time.Parse(layout, a.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}
