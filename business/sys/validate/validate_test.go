package validate_test

import (
	"testing"

	"github.com/blocksmith/blocksmith/business/sys/validate"
)

func Test_Check(t *testing.T) {
	type tx struct {
		From  string  `json:"from" validate:"required"`
		To    string  `json:"to" validate:"required"`
		Value float64 `json:"value" validate:"gt=0"`
	}

	if err := validate.Check(tx{From: "alice", To: "bob", Value: 1}); err != nil {
		t.Fatalf("Should accept a valid value: %s", err)
	}

	err := validate.Check(tx{From: "alice", Value: -1})
	if !validate.IsFieldErrors(err) {
		t.Fatalf("Should get back field errors, got %v", err)
	}

	fields := validate.GetFieldErrors(err).Fields()
	if len(fields) != 2 {
		t.Fatalf("Should get back two field errors, got %v", fields)
	}

	if _, exists := fields["to"]; !exists {
		t.Fatalf("Should use the json name for the field, got %v", fields)
	}

	if fields["to"] != "to is a required field" {
		t.Fatalf("Should get back a translated message, got %q", fields["to"])
	}
}

func Test_CheckAddress(t *testing.T) {
	type query struct {
		Address string `json:"address" validate:"address"`
	}

	if err := validate.Check(query{Address: "mfcSEPR8EkJrpX91YkTJ9iscdAzppJrG9j"}); err != nil {
		t.Fatalf("Should accept a valid address: %s", err)
	}

	err := validate.Check(query{Address: "alice"})
	fields := validate.GetFieldErrors(err).Fields()
	if fields["address"] != "address must be a valid address" {
		t.Fatalf("Should reject an invalid address, got %v", err)
	}
}
