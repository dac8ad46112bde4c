package models

import "time"

// CaseRecord is the canonical, locally stored unit: one record per case,
// consolidated from the upstream flat export. Identifier and name fields may
// be empty when the export never assigned that party role for the case.
type CaseRecord struct {
	CaseID         int64  `json:"caseId"`
	FilingNumber   string `json:"filingNumber"`
	AlternateCode  string `json:"alternateCode"`
	CaseClass      string `json:"caseClass"`
	ProcedureStage string `json:"procedureStage"`
	DefendantName  string `json:"defendantName"`
	DefendantID    string `json:"defendantId"`
	PlaintiffName  string `json:"plaintiffName"`
	PlaintiffID    string `json:"plaintiffId"`
}

// CaseDetail is the richer single-case view served by the detail path. It is
// assembled from a fresh upstream call and never persisted.
type CaseDetail struct {
	CaseID           int64         `json:"caseId"`
	FilingNumber     string        `json:"filingNumber"`
	AlternateCode    string        `json:"alternateCode"`
	CaseClass        string        `json:"caseClass"`
	ProcedureStage   string        `json:"procedureStage"`
	Status           string        `json:"status"`
	Region           string        `json:"region"`
	Court            string        `json:"court"`
	OriginCourt      string        `json:"originCourt"`
	ContractLocation string        `json:"contractLocation"`
	Subjects         []Subject     `json:"subjects"`
	Attorneys        []Attorney    `json:"attorneys"`
	Measures         []Measure     `json:"measures"`
	CustomFields     []CustomField `json:"customFields"`
	LatestAction     *Action       `json:"latestAction,omitempty"`
	RecentActions    []Action      `json:"recentActions"`
}

// Subject is a party attached to a case.
type Subject struct {
	Role       string `json:"role"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// Attorney is counsel of record.
type Attorney struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// Measure is an effective precautionary measure; ineffective ones are
// filtered out before this type is built.
type Measure struct {
	AssetType         string `json:"assetType"`
	Subject           string `json:"subject"`
	MeasureType       string `json:"measureType"`
	JudicialAppraisal string `json:"judicialAppraisal"`
	Notes             string `json:"notes"`
}

// CustomField is an upstream free-form attribute.
type CustomField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Action is a procedural action from the Principal docket.
type Action struct {
	Date time.Time `json:"date"`
	Type string    `json:"type"`
	Note string    `json:"note"`
}
