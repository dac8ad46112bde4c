package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"lexsync/internal/registry/models"
	"lexsync/pkg/sentinel"
)

type caseEnvelope struct {
	Case *models.CaseDetailPayload `json:"proceso"`
}

// FetchCase retrieves the detail payload for a single case. The upstream
// answers with an empty envelope for unknown ids, which surfaces as
// sentinel.ErrNotFound rather than an error.
func (c *Client) FetchCase(ctx context.Context, caseID int64) (*models.CaseDetailPayload, error) {
	query := url.Values{
		"procesoId": {strconv.FormatInt(caseID, 10)},
	}
	body, err := c.Get(ctx, "/Procesos/GetProceso", query)
	if err != nil {
		return nil, err
	}

	var envelope caseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode case detail: %w", err)
	}
	if envelope.Case == nil {
		return nil, sentinel.ErrNotFound
	}
	return envelope.Case, nil
}
