package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"lexsync/internal/registry/models"
)

type exportEnvelope struct {
	JSONString string `json:"jsonString"`
}

// FetchExport pulls the full flat export for a report: one row per
// case-party, delivered as a JSON array nested inside the jsonString field.
// A missing or unparseable payload is ErrMalformedExport; a literal empty
// array is a valid, empty export.
func (c *Client) FetchExport(ctx context.Context, reportID int64) ([]models.ExportRow, error) {
	query := url.Values{
		"token":     {c.apiKey},
		"informeId": {strconv.FormatInt(reportID, 10)},
	}
	body, err := c.Get(ctx, "/Informes/GetInformeJson", query)
	if err != nil {
		return nil, err
	}

	var envelope exportEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %v", ErrMalformedExport, err)
	}
	if envelope.JSONString == "" {
		return nil, fmt.Errorf("%w: empty jsonString", ErrMalformedExport)
	}

	var rows []models.ExportRow
	if err := json.Unmarshal([]byte(envelope.JSONString), &rows); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %v", ErrMalformedExport, err)
	}
	return rows, nil
}
