package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/scbrown/maint/internal/model"
)

// row is a result row keyed by column name.
type row map[string]any

// scanRow reads the current row of rows into a row keyed by cols.
func scanRow(rows *sql.Rows, cols []string) (row, error) {
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	r := make(row, len(cols))
	for i, c := range cols {
		r[c] = vals[i]
	}
	return r, nil
}

// collect decodes every row of rows. Rows that fail to decode are skipped and
// their errors joined into the returned error, so the caller still receives
// every readable record.
func collect[T any](rows *sql.Rows, table string, decode func(row) (T, error)) ([]T, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", table, err)
	}

	var out []T
	var bad []error
	for rows.Next() {
		r, err := scanRow(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		v, err := decode(r)
		if err != nil {
			bad = append(bad, err)
			continue
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, errors.Join(bad...)
}

// decoder pulls typed fields out of a row, remembering the first failure.
type decoder struct {
	table string
	r     row
	id    int64
	err   error
}

func newDecoder(table string, r row) *decoder {
	d := &decoder{table: table, r: r}
	if _, ok := r["id"]; ok {
		d.id = d.int("id")
	}
	return d
}

func (d *decoder) fail(col string, v any, err error) {
	if d.err == nil {
		d.err = &DecodeError{Table: d.table, ID: d.id, Column: col, Value: v, Err: err}
	}
}

func (d *decoder) value(col string) (any, bool) {
	v, ok := d.r[col]
	if !ok {
		d.fail(col, nil, errors.New("missing column"))
		return nil, false
	}
	if v == nil {
		d.fail(col, nil, errors.New("unexpected NULL"))
		return nil, false
	}
	return v, true
}

func (d *decoder) int(col string) int64 {
	v, ok := d.value(col)
	if !ok {
		return 0
	}
	switch x := v.(type) {
	case int64:
		return x
	case float64:
		if x == float64(int64(x)) {
			return int64(x)
		}
	case string:
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return n
		}
	case []byte:
		if n, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return n
		}
	}
	d.fail(col, v, fmt.Errorf("not an integer"))
	return 0
}

func (d *decoder) text(col string) string {
	v, ok := d.value(col)
	if !ok {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	d.fail(col, v, fmt.Errorf("not text"))
	return ""
}

func (d *decoder) date(col string) model.Date {
	v, ok := d.value(col)
	if !ok {
		return model.Date{}
	}
	var s string
	switch x := v.(type) {
	case time.Time:
		return model.DateOf(x.UTC())
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		d.fail(col, v, fmt.Errorf("not a date"))
		return model.Date{}
	}
	date, err := model.ParseDate(s)
	if err != nil {
		d.fail(col, v, err)
	}
	return date
}

func decodeCustomer(r row) (model.Customer, error) {
	d := newDecoder("customer", r)
	c := model.Customer{
		ID:   d.id,
		Name: d.text("name"),
	}
	return c, d.err
}

func decodeContract(r row) (model.Contract, error) {
	d := newDecoder("contract", r)
	c := model.Contract{
		ID:          d.id,
		CustomerID:  d.int("customer_id"),
		StartDate:   d.date("start_date"),
		EndDate:     d.date("end_date"),
		TotalPoints: d.int("total_points"),
	}
	return c, d.err
}

func decodeRequest(r row) (model.Request, error) {
	d := newDecoder("request", r)
	req := model.Request{
		ID:          d.id,
		ContractID:  d.int("contract_id"),
		Description: d.text("description"),
		RequestDate: d.date("request_date"),
	}
	return req, d.err
}

func decodeWork(r row) (model.Work, error) {
	d := newDecoder("work", r)
	w := model.Work{
		ID:          d.id,
		RequestID:   d.int("request_id"),
		Worker:      d.text("worker"),
		Description: d.text("description"),
		PointsUsed:  d.int("points_used"),
		WorkDate:    d.date("work_date"),
	}
	return w, d.err
}

func decodeCumulativeUsage(r row) (model.CumulativeUsage, error) {
	d := newDecoder("work", r)
	u := model.CumulativeUsage{
		RequestDate:          d.date("request_date"),
		RequestDescription:   d.text("request_description"),
		Worker:               d.text("worker"),
		WorkDate:             d.date("work_date"),
		WorkDescription:      d.text("work_description"),
		PointsUsed:           d.int("points_used"),
		CumulativePointsUsed: d.int("cumulative_points_used"),
	}
	return u, d.err
}
