// Package record converts maint records to and from the YAML text shown to
// users and edited in their editor.
//
// Identifiers never appear in the text. Parse functions take the id from the
// caller and attach it to the decoded record, so an edit can neither change
// nor drop it.
package record

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/scbrown/maint/internal/model"
	"gopkg.in/yaml.v3"
)

// ParseError reports user-edited text that could not be turned back into a
// record. Nothing is written when it occurs.
type ParseError struct {
	Kind model.Kind
	ID   int64
	Err  error
}

func (e *ParseError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("parse %s %d: %v", e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Marshal renders v as YAML.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders v as YAML to w.
func Write(w io.Writer, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WithID renders v as a YAML mapping whose first key is id. Listings use it
// so each entry can be referred back to; Parse functions never accept it.
func WithID(id int64, v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("encode yaml: %T is not a mapping", v)
	}
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "id"}
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(id, 10)}
	n.Content = append([]*yaml.Node{key, val}, n.Content...)
	return &n, nil
}

// WriteList renders items as a YAML sequence, each entry carrying the id at
// the same index in ids.
func WriteList(w io.Writer, ids []int64, items []any) error {
	if len(ids) != len(items) {
		return fmt.Errorf("write list: %d ids for %d items", len(ids), len(items))
	}
	nodes := make([]*yaml.Node, 0, len(items))
	for i, item := range items {
		n, err := WithID(ids[i], item)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}
	return Write(w, nodes)
}

// validator is implemented by every record type.
type validator interface {
	Validate() error
}

// decode strictly parses text into v: unknown keys and trailing documents
// are rejected, then v is validated.
func decode(kind model.Kind, id int64, text string, v validator) error {
	dec := yaml.NewDecoder(bytes.NewReader([]byte(text)))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return &ParseError{Kind: kind, ID: id, Err: err}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return &ParseError{Kind: kind, ID: id, Err: errors.New("unexpected extra document")}
	}
	if err := v.Validate(); err != nil {
		return &ParseError{Kind: kind, ID: id, Err: err}
	}
	return nil
}

// ParseCustomer parses a customer from text and gives it id.
func ParseCustomer(text string, id int64) (model.Customer, error) {
	var c model.Customer
	if err := decode(model.KindCustomer, id, text, &c); err != nil {
		return model.Customer{}, err
	}
	c.ID = id
	return c, nil
}

// ParseContract parses a contract from text and gives it id.
func ParseContract(text string, id int64) (model.Contract, error) {
	var c model.Contract
	if err := decode(model.KindContract, id, text, &c); err != nil {
		return model.Contract{}, err
	}
	c.ID = id
	return c, nil
}

// ParseRequest parses a request from text and gives it id.
func ParseRequest(text string, id int64) (model.Request, error) {
	var r model.Request
	if err := decode(model.KindRequest, id, text, &r); err != nil {
		return model.Request{}, err
	}
	r.ID = id
	return r, nil
}

// ParseWork parses a work entry from text and gives it id.
func ParseWork(text string, id int64) (model.Work, error) {
	var w model.Work
	if err := decode(model.KindWork, id, text, &w); err != nil {
		return model.Work{}, err
	}
	w.ID = id
	return w, nil
}
