package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidateLayerID(t *testing.T) {
	valid := []string{"business", "service_layer", "l2", "a"}
	for _, id := range valid {
		if err := ValidateLayerID(id); err != nil {
			t.Errorf("ValidateLayerID(%q) failed: %v", id, err)
		}
	}

	invalid := []string{"", "Business", "2layer", "bad layer", "bad-layer", "bad.layer",
		strings.Repeat("a", MaxIdentifierLength+1)}
	for _, id := range invalid {
		if err := ValidateLayerID(id); err == nil {
			t.Errorf("ValidateLayerID(%q) should fail", id)
		}
	}
}

func TestValidateTypeName(t *testing.T) {
	if err := ValidateTypeName("api_gateway"); err != nil {
		t.Errorf("ValidateTypeName(api_gateway) failed: %v", err)
	}
	for _, name := range []string{"", "Api", "api-gateway", "_api"} {
		if err := ValidateTypeName(name); err == nil {
			t.Errorf("ValidateTypeName(%q) should fail", name)
		}
	}
}

func TestValidatePredicateName(t *testing.T) {
	// Predicates allow hyphens; layer and type names do not.
	valid := []string{"depends-on", "supported_by", "owns", "realizes"}
	for _, name := range valid {
		if err := ValidatePredicateName(name); err != nil {
			t.Errorf("ValidatePredicateName(%q) failed: %v", name, err)
		}
	}
	for _, name := range []string{"", "-leading", "Depends-On", "has space"} {
		if err := ValidatePredicateName(name); err == nil {
			t.Errorf("ValidatePredicateName(%q) should fail", name)
		}
	}
}

func TestValidateCompositeID(t *testing.T) {
	if err := ValidateCompositeID("service.api"); err != nil {
		t.Errorf("ValidateCompositeID(service.api) failed: %v", err)
	}
	// Only the first dot splits; the type portion may not contain more.
	if err := ValidateCompositeID("service.api.v2"); err == nil {
		t.Error("Nested dots should fail the type-name check")
	}
	for _, id := range []string{"service", "Service.api", "service.Api", ".api", "service."} {
		if err := ValidateCompositeID(id); err == nil {
			t.Errorf("ValidateCompositeID(%q) should fail", id)
		}
	}
}

func TestFormatStructError(t *testing.T) {
	v := validator.New()

	type doc struct {
		Name  string `validate:"required"`
		Count int    `validate:"min=1,max=10"`
		Kind  string `validate:"oneof=strong weak inferred"`
	}

	err := v.Struct(doc{Kind: "strong", Count: 1})
	formatted := FormatStructError(err)
	if formatted == nil || !strings.Contains(formatted.Error(), "Name: field is required") {
		t.Errorf("Required formatting = %v", formatted)
	}

	err = v.Struct(doc{Name: "x", Count: 99, Kind: "strong"})
	formatted = FormatStructError(err)
	if formatted == nil || !strings.Contains(formatted.Error(), "Count: must not exceed 10") {
		t.Errorf("Max formatting = %v", formatted)
	}

	err = v.Struct(doc{Name: "x", Count: 1, Kind: "bogus"})
	formatted = FormatStructError(err)
	if formatted == nil || !strings.Contains(formatted.Error(), "Kind: must be one of") {
		t.Errorf("Oneof formatting = %v", formatted)
	}

	if FormatStructError(nil) != nil {
		t.Error("Nil error should pass through")
	}
}
