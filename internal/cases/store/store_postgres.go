package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"lexsync/internal/cases/models"
	"lexsync/pkg/sentinel"
)

// PostgresStore persists case records in the case_records table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// UpsertBatch writes one batch in a single round trip using unnest arrays.
// The ON CONFLICT guard skips rows whose stored values already match, which
// keeps repeated syncs idempotent and makes the insert/update counts honest:
// rows come back only when something was written, and xmax = 0 distinguishes
// fresh inserts from updates.
func (s *PostgresStore) UpsertBatch(ctx context.Context, records []models.CaseRecord) (int, int, error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	ids := make([]int64, len(records))
	filing := make([]string, len(records))
	alternate := make([]string, len(records))
	class := make([]string, len(records))
	stage := make([]string, len(records))
	defName := make([]string, len(records))
	defID := make([]string, len(records))
	plaName := make([]string, len(records))
	plaID := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.CaseID
		filing[i] = rec.FilingNumber
		alternate[i] = rec.AlternateCode
		class[i] = rec.CaseClass
		stage[i] = rec.ProcedureStage
		defName[i] = rec.DefendantName
		defID[i] = rec.DefendantID
		plaName[i] = rec.PlaintiffName
		plaID[i] = rec.PlaintiffID
	}

	query := `
		INSERT INTO case_records (
			case_id, filing_number, alternate_code, case_class, procedure_stage,
			defendant_name, defendant_id, plaintiff_name, plaintiff_id
		)
		SELECT * FROM unnest(
			$1::bigint[], $2::text[], $3::text[], $4::text[], $5::text[],
			$6::text[], $7::text[], $8::text[], $9::text[]
		)
		ON CONFLICT (case_id) DO UPDATE SET
			filing_number   = EXCLUDED.filing_number,
			alternate_code  = EXCLUDED.alternate_code,
			case_class      = EXCLUDED.case_class,
			procedure_stage = EXCLUDED.procedure_stage,
			defendant_name  = EXCLUDED.defendant_name,
			defendant_id    = EXCLUDED.defendant_id,
			plaintiff_name  = EXCLUDED.plaintiff_name,
			plaintiff_id    = EXCLUDED.plaintiff_id
		WHERE (
			case_records.filing_number, case_records.alternate_code,
			case_records.case_class, case_records.procedure_stage,
			case_records.defendant_name, case_records.defendant_id,
			case_records.plaintiff_name, case_records.plaintiff_id
		) IS DISTINCT FROM (
			EXCLUDED.filing_number, EXCLUDED.alternate_code,
			EXCLUDED.case_class, EXCLUDED.procedure_stage,
			EXCLUDED.defendant_name, EXCLUDED.defendant_id,
			EXCLUDED.plaintiff_name, EXCLUDED.plaintiff_id
		)
		RETURNING (xmax = 0) AS inserted
	`
	rows, err := s.db.QueryContext(ctx, query,
		pq.Array(ids), pq.Array(filing), pq.Array(alternate), pq.Array(class),
		pq.Array(stage), pq.Array(defName), pq.Array(defID), pq.Array(plaName),
		pq.Array(plaID),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("upsert case batch: %w", err)
	}
	defer rows.Close()

	var upserted, modified int
	for rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			return 0, 0, fmt.Errorf("scan upsert result: %w", err)
		}
		if inserted {
			upserted++
		} else {
			modified++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("iterate upsert results: %w", err)
	}
	return upserted, modified, nil
}

func (s *PostgresStore) DeleteAbsent(ctx context.Context, keep []int64) (int, error) {
	var (
		res sql.Result
		err error
	)
	if len(keep) == 0 {
		res, err = s.db.ExecContext(ctx, `DELETE FROM case_records`)
	} else {
		res, err = s.db.ExecContext(ctx,
			`DELETE FROM case_records WHERE NOT (case_id = ANY($1::bigint[]))`,
			pq.Array(keep),
		)
	}
	if err != nil {
		return 0, fmt.Errorf("delete absent cases: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted cases: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) FindByPartyIdentifier(ctx context.Context, value string) ([]models.CaseRecord, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(value)) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT case_id, filing_number, alternate_code, case_class, procedure_stage,
		       defendant_name, defendant_id, plaintiff_name, plaintiff_id
		FROM case_records
		WHERE defendant_id ILIKE $1 ESCAPE '\' OR plaintiff_id ILIKE $1 ESCAPE '\'
		ORDER BY case_id ASC
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("find cases by identifier: %w", err)
	}
	defer rows.Close()

	var out []models.CaseRecord
	for rows.Next() {
		rec, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByCaseID(ctx context.Context, caseID int64) (models.CaseRecord, error) {
	var rec models.CaseRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT case_id, filing_number, alternate_code, case_class, procedure_stage,
		       defendant_name, defendant_id, plaintiff_name, plaintiff_id
		FROM case_records
		WHERE case_id = $1
	`, caseID).Scan(
		&rec.CaseID, &rec.FilingNumber, &rec.AlternateCode, &rec.CaseClass,
		&rec.ProcedureStage, &rec.DefendantName, &rec.DefendantID,
		&rec.PlaintiffName, &rec.PlaintiffID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CaseRecord{}, sentinel.ErrNotFound
		}
		return models.CaseRecord{}, fmt.Errorf("find case %d: %w", caseID, err)
	}
	return rec, nil
}

func (s *PostgresStore) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM case_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cases: %w", err)
	}
	return n, nil
}

func scanCase(rows *sql.Rows) (models.CaseRecord, error) {
	var rec models.CaseRecord
	if err := rows.Scan(
		&rec.CaseID, &rec.FilingNumber, &rec.AlternateCode, &rec.CaseClass,
		&rec.ProcedureStage, &rec.DefendantName, &rec.DefendantID,
		&rec.PlaintiffName, &rec.PlaintiffID,
	); err != nil {
		return models.CaseRecord{}, fmt.Errorf("scan case: %w", err)
	}
	return rec, nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search values.
func escapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}
