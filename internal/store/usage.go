package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/scbrown/maint/internal/model"
	"go.uber.org/zap"
)

// usageQuery selects the work logged against one contract's in-window
// requests, with a running total in request-date then work-date order. Ids
// break ties so equal dates keep insertion order. The second and third
// parameters are an optional work-date cut-off ('' for none).
const usageQuery = `
SELECT
	work.id                AS id,
	request.request_date   AS request_date,
	request.description    AS request_description,
	work.worker            AS worker,
	work.work_date         AS work_date,
	work.description       AS work_description,
	work.points_used       AS points_used,
	SUM(work.points_used)
		OVER (
			PARTITION BY contract.id
			ORDER BY request.request_date, work.work_date, request.id, work.id
			ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW
		) AS cumulative_points_used
FROM
	work
	INNER JOIN request ON work.request_id = request.id
	INNER JOIN contract ON request.contract_id = contract.id
WHERE
	contract.id = ?
	AND request.request_date BETWEEN contract.start_date AND contract.end_date
	AND (? = '' OR work.work_date <= ?)
ORDER BY request.request_date, work.work_date, request.id, work.id`

// Usage returns the cumulative usage ledger for a contract. Only work against
// requests dated inside [start_date, end_date] counts. A contract with no such
// work yields an empty ledger. The budget is not checked here.
//
// If some rows hold unreadable values the ledger of readable rows is returned
// together with the joined decode errors. The running total is computed in
// SQL, so it still counts the points of skipped rows and can jump between two
// readable entries.
func (s *SQLiteStore) Usage(ctx context.Context, contractID int64) (model.ContractUsage, error) {
	return s.usage(ctx, contractID, "")
}

// UsageAsOf is Usage ignoring work dated after asOf.
func (s *SQLiteStore) UsageAsOf(ctx context.Context, contractID int64, asOf model.Date) (model.ContractUsage, error) {
	return s.usage(ctx, contractID, asOf.String())
}

func (s *SQLiteStore) usage(ctx context.Context, contractID int64, cutoff string) (model.ContractUsage, error) {
	contract, err := s.GetContract(ctx, contractID)
	if err != nil {
		return model.ContractUsage{}, err
	}

	rows, err := s.q.QueryContext(ctx, usageQuery, contractID, cutoff, cutoff)
	if err != nil {
		return model.ContractUsage{}, fmt.Errorf("query usage: %w", err)
	}
	ledger, err := collect(rows, "work", decodeCumulativeUsage)
	if err != nil && DecodeErrors(err) == nil {
		return model.ContractUsage{}, err
	}
	if ledger == nil {
		ledger = []model.CumulativeUsage{}
	}

	s.log.Debug("usage",
		zap.Int64("contract", contractID),
		zap.String("as_of", cutoff),
		zap.Int("entries", len(ledger)))

	return model.ContractUsage{
		StartDate:       contract.StartDate,
		EndDate:         contract.EndDate,
		TotalPoints:     contract.TotalPoints,
		CumulativeUsage: ledger,
	}, err
}

// Summaries returns budget consumption for every contract, counting work
// dated on or before asOf. Contracts or customers that cannot be decoded are
// reported in the joined error; the rest are still summarized.
func (s *SQLiteStore) Summaries(ctx context.Context, asOf model.Date) ([]ContractSummary, error) {
	var bad []error
	keep := func(err error) error {
		if err == nil {
			return nil
		}
		if DecodeErrors(err) == nil {
			return err
		}
		bad = append(bad, err)
		return nil
	}

	customers, err := s.ListCustomers(ctx)
	if err := keep(err); err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	contracts, err := s.ListContracts(ctx)
	if err := keep(err); err != nil {
		return nil, err
	}

	summaries := make([]ContractSummary, 0, len(contracts))
	for _, c := range contracts {
		u, err := s.UsageAsOf(ctx, c.ID, asOf)
		if err := keep(err); err != nil {
			return nil, err
		}
		sum := ContractSummary{
			Contract:  c,
			Customer:  names[c.CustomerID],
			Used:      u.Used(),
			Remaining: u.Remaining(),
			Entries:   len(u.CumulativeUsage),
		}
		for _, e := range u.CumulativeUsage {
			if sum.LastWork == nil || e.WorkDate.After(*sum.LastWork) {
				d := e.WorkDate
				sum.LastWork = &d
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, errors.Join(bad...)
}
