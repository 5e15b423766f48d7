// Package store defines the storage interface for maint data.
package store

import (
	"context"

	"github.com/scbrown/maint/internal/model"
)

// Store is the persistence interface for customers, contracts, requests and
// work entries, plus the usage reports derived from them.
//
// Add methods ignore the record's ID and return the number of rows inserted;
// the new identifier is assigned by the store. Save methods replace every
// field of the row with the record's ID and return the number of rows
// affected, which is 0 when no such row exists.
type Store interface {
	AddCustomer(ctx context.Context, c model.Customer) (int64, error)
	GetCustomer(ctx context.Context, id int64) (model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	SaveCustomer(ctx context.Context, c model.Customer) (int64, error)

	AddContract(ctx context.Context, c model.Contract) (int64, error)
	GetContract(ctx context.Context, id int64) (model.Contract, error)
	ListContracts(ctx context.Context) ([]model.Contract, error)
	SaveContract(ctx context.Context, c model.Contract) (int64, error)

	AddRequest(ctx context.Context, r model.Request) (int64, error)
	GetRequest(ctx context.Context, id int64) (model.Request, error)
	ListRequests(ctx context.Context) ([]model.Request, error)
	SaveRequest(ctx context.Context, r model.Request) (int64, error)

	AddWork(ctx context.Context, w model.Work) (int64, error)
	GetWork(ctx context.Context, id int64) (model.Work, error)
	ListWork(ctx context.Context) ([]model.Work, error)
	SaveWork(ctx context.Context, w model.Work) (int64, error)

	// Workers returns the distinct worker names seen in work entries.
	Workers(ctx context.Context) ([]string, error)

	// Usage returns the running-total ledger of work logged against requests
	// that fall inside the contract's window.
	Usage(ctx context.Context, contractID int64) (model.ContractUsage, error)

	// UsageAsOf is Usage restricted to work dated on or before asOf.
	UsageAsOf(ctx context.Context, contractID int64, asOf model.Date) (model.ContractUsage, error)

	// Summaries returns budget consumption for every contract as of asOf.
	Summaries(ctx context.Context, asOf model.Date) ([]ContractSummary, error)

	// Close releases any resources held by the store.
	Close() error
}

// Transactor is implemented by stores that can apply a group of writes
// atomically.
type Transactor interface {
	InTx(ctx context.Context, fn func(Store) error) error
}

// ContractSummary holds budget consumption for one contract.
type ContractSummary struct {
	Contract  model.Contract `json:"contract"`
	Customer  string         `json:"customer"`
	Used      int64          `json:"used"`
	Remaining int64          `json:"remaining"`
	Entries   int            `json:"entries"`
	LastWork  *model.Date    `json:"last_work,omitempty"`
}

// Exceeded reports whether the contract is over budget.
func (s ContractSummary) Exceeded() bool {
	return s.Used > s.Contract.TotalPoints
}
