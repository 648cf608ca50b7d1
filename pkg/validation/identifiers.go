package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Identifier limits for schema documents
	MaxIdentifierLength = 64
	MaxDescription      = 2000

	// Layer ids and bare type names are lowercase words; predicate names
	// additionally allow hyphens (e.g. "depends-on").
	layerPattern     = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	typePattern      = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	predicatePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
)

// ValidateLayerID checks a layer identifier against the naming rules.
func ValidateLayerID(id string) error {
	if id == "" {
		return errors.New("layer id cannot be empty")
	}
	if len(id) > MaxIdentifierLength {
		return fmt.Errorf("layer id '%s' exceeds maximum length of %d characters", id, MaxIdentifierLength)
	}
	if !layerPattern.MatchString(id) {
		return fmt.Errorf("layer id '%s' contains invalid characters (lowercase letters, digits, and underscore allowed)", id)
	}
	return nil
}

// ValidateTypeName checks the bare type portion of a node type id.
func ValidateTypeName(name string) error {
	if name == "" {
		return errors.New("type name cannot be empty")
	}
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("type name '%s' exceeds maximum length of %d characters", name, MaxIdentifierLength)
	}
	if !typePattern.MatchString(name) {
		return fmt.Errorf("type name '%s' contains invalid characters (lowercase letters, digits, and underscore allowed)", name)
	}
	return nil
}

// ValidatePredicateName checks a predicate identifier.
func ValidatePredicateName(name string) error {
	if name == "" {
		return errors.New("predicate name cannot be empty")
	}
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("predicate name '%s' exceeds maximum length of %d characters", name, MaxIdentifierLength)
	}
	if !predicatePattern.MatchString(name) {
		return fmt.Errorf("predicate name '%s' contains invalid characters (lowercase letters, digits, underscore, and hyphen allowed)", name)
	}
	return nil
}

// ValidateCompositeID checks a "layer.type" node type identifier.
func ValidateCompositeID(id string) error {
	layer, typ, ok := strings.Cut(id, ".")
	if !ok {
		return fmt.Errorf("id '%s' is not of the form layer.type", id)
	}
	if err := ValidateLayerID(layer); err != nil {
		return err
	}
	return ValidateTypeName(typ)
}

// FormatStructError converts validator/v10 struct errors to a user-friendly
// format.
func FormatStructError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
