package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/mediavault/pkg/rule"
)

type searchForm struct {
	Query  string `rule:"max=256"`
	Offset int    `rule:"gte=0"`
	Limit  int    `rule:"gte=1,lte=50"`
}

func TestEngine(t *testing.T) {
	if rule.Engine() == nil {
		t.Error("Engine() returned nil")
	}
}

func TestValidateStruct(t *testing.T) {
	valid := searchForm{Query: "batman 2022", Offset: 0, Limit: 10}
	if err := rule.ValidateStruct(valid); err != nil {
		t.Errorf("expected no error for valid form, got %v", err)
	}

	negativeOffset := searchForm{Query: "batman", Offset: -1, Limit: 10}
	if err := rule.ValidateStruct(negativeOffset); err == nil {
		t.Error("expected error for negative offset, got nil")
	}

	oversizedLimit := searchForm{Query: "batman", Offset: 0, Limit: 500}
	if err := rule.ValidateStruct(oversizedLimit); err == nil {
		t.Error("expected error for oversized limit, got nil")
	}
}

func TestValidateVar(t *testing.T) {
	if err := rule.ValidateVar(25, "gte=0"); err != nil {
		t.Errorf("expected no error for valid number, got %v", err)
	}

	if err := rule.ValidateVar(-5, "gte=0"); err == nil {
		t.Error("expected error for invalid number, got nil")
	}
}

func TestRegisterValidation(t *testing.T) {
	err := rule.RegisterValidation("partition_name", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "primary", "cloud", "archive":
			return true
		}

		return false
	})
	if err != nil {
		t.Fatalf("failed to register validation: %v", err)
	}

	if err := rule.ValidateVar("cloud", "partition_name"); err != nil {
		t.Errorf("expected no error for known partition, got %v", err)
	}

	if err := rule.ValidateVar("glacier", "partition_name"); err == nil {
		t.Error("expected error for unknown partition, got nil")
	}
}

func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("catalog_key", "required,min=8")

	if err := rule.ValidateVar("BQADBQAD", "catalog_key"); err != nil {
		t.Errorf("expected no error for valid key, got %v", err)
	}

	if err := rule.ValidateVar("ab", "catalog_key"); err == nil {
		t.Error("expected error for short key, got nil")
	}
}
