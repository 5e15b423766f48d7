// Package model defines the core maint types: customers, the contracts they
// sign, the requests raised under a contract and the work logged against each
// request, plus the derived usage ledger.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one of the four stored entity kinds.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindContract Kind = "contract"
	KindRequest  Kind = "request"
	KindWork     Kind = "work"
)

// Kinds lists every entity kind in dependency order.
var Kinds = []Kind{KindCustomer, KindContract, KindRequest, KindWork}

// ParseKind converts a user-supplied name to a Kind. Plurals are accepted.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q (valid kinds: customer, contract, request, work)", s)
}

// Customer is a party that signs contracts.
type Customer struct {
	ID   int64  `json:"id" yaml:"-"`
	Name string `json:"name" yaml:"name"`
}

// Contract is a points budget a customer may draw on between StartDate and
// EndDate inclusive.
type Contract struct {
	ID          int64 `json:"id" yaml:"-"`
	CustomerID  int64 `json:"customer_id" yaml:"customer_id"`
	StartDate   Date  `json:"start_date" yaml:"start_date"`
	EndDate     Date  `json:"end_date" yaml:"end_date"`
	TotalPoints int64 `json:"total_points" yaml:"total_points"`
}

// Request is one unit of client-requested work under a contract.
type Request struct {
	ID          int64  `json:"id" yaml:"-"`
	ContractID  int64  `json:"contract_id" yaml:"contract_id"`
	Description string `json:"description" yaml:"description"`
	RequestDate Date   `json:"request_date" yaml:"request_date"`
}

// Work is a single logged effort entry against a request.
type Work struct {
	ID          int64  `json:"id" yaml:"-"`
	RequestID   int64  `json:"request_id" yaml:"request_id"`
	Worker      string `json:"worker" yaml:"worker"`
	Description string `json:"description" yaml:"description"`
	PointsUsed  int64  `json:"points_used" yaml:"points_used"`
	WorkDate    Date   `json:"work_date" yaml:"work_date"`
}

// Validate checks the customer's fields.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name must not be empty")
	}
	return nil
}

// Validate checks that the contract window is well formed and the budget is
// not negative.
func (c Contract) Validate() error {
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return errors.New("start_date and end_date are required")
	}
	if c.StartDate.After(c.EndDate) {
		return fmt.Errorf("start_date %s is after end_date %s", c.StartDate, c.EndDate)
	}
	if c.TotalPoints < 0 {
		return fmt.Errorf("total_points must be >= 0, got %d", c.TotalPoints)
	}
	return nil
}

// Contains reports whether d falls inside the contract window.
func (c Contract) Contains(d Date) bool {
	return !d.Before(c.StartDate) && !d.After(c.EndDate)
}

// Validate checks the request's fields.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description must not be empty")
	}
	if r.RequestDate.IsZero() {
		return errors.New("request_date is required")
	}
	return nil
}

// Validate checks the work entry's fields.
func (w Work) Validate() error {
	if strings.TrimSpace(w.Worker) == "" {
		return errors.New("worker must not be empty")
	}
	if strings.TrimSpace(w.Description) == "" {
		return errors.New("description must not be empty")
	}
	if w.PointsUsed < 0 {
		return fmt.Errorf("points_used must be >= 0, got %d", w.PointsUsed)
	}
	if w.WorkDate.IsZero() {
		return errors.New("work_date is required")
	}
	return nil
}

// CumulativeUsage is one work entry in a contract's usage ledger together with
// the running total up to and including it.
type CumulativeUsage struct {
	RequestDate          Date   `json:"request_date" yaml:"request_date"`
	RequestDescription   string `json:"request_description" yaml:"request_description"`
	Worker               string `json:"worker" yaml:"worker"`
	WorkDate             Date   `json:"work_date" yaml:"work_date"`
	WorkDescription      string `json:"work_description" yaml:"work_description"`
	PointsUsed           int64  `json:"points_used" yaml:"points_used"`
	CumulativePointsUsed int64  `json:"cumulative_points_used" yaml:"cumulative_points_used"`
}

// ContractUsage is the usage ledger of one contract.
type ContractUsage struct {
	StartDate       Date              `json:"start_date" yaml:"start_date"`
	EndDate         Date              `json:"end_date" yaml:"end_date"`
	TotalPoints     int64             `json:"total_points" yaml:"total_points"`
	CumulativeUsage []CumulativeUsage `json:"cumulative_usage" yaml:"cumulative_usage"`
}

// Used returns the points consumed by the last ledger entry, or 0 when the
// ledger is empty.
func (u ContractUsage) Used() int64 {
	if len(u.CumulativeUsage) == 0 {
		return 0
	}
	return u.CumulativeUsage[len(u.CumulativeUsage)-1].CumulativePointsUsed
}

// Remaining returns the unspent budget. It is negative once the budget is
// exceeded.
func (u ContractUsage) Remaining() int64 {
	return u.TotalPoints - u.Used()
}

// Exceeded reports whether usage is over budget.
func (u ContractUsage) Exceeded() bool {
	return u.Used() > u.TotalPoints
}
