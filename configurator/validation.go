package configurator

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ClassificationPolicy selects which classification groups must be chosen before
// a design can be saved.
type ClassificationPolicy int

const (
	// PolicyAllGroups requires a valid option for every group of the material.
	PolicyAllGroups ClassificationPolicy = iota
	// PolicyLegacyKeys only checks the "sides" and "process" groups; other groups
	// pass unvalidated.
	PolicyLegacyKeys
)

var legacyClassificationKeys = []string{ClassificationSides, ClassificationProcess}

func notBlank(message string) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	})
}

// validateBasicInfo checks the fields required to leave the first step. minQuantity
// is the material minimum, 0 when there is none.
func validateBasicInfo(d Draft, minQuantity int) error {
	quantityRules := []validation.Rule{
		validation.Required.Error("Quantity is required"),
		validation.Min(1).Error("Quantity must be a positive number"),
	}
	if minQuantity > 0 {
		quantityRules = append(quantityRules,
			validation.Min(minQuantity).Error(fmt.Sprintf("Quantity is below the material minimum of %d", minQuantity)))
	}

	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, notBlank("Design name is required")),
		validation.Field(&d.CategoryID, validation.Required.Error("Category is required")),
		validation.Field(&d.MaterialID, validation.Required.Error("Material is required")),
		validation.Field(&d.Length,
			validation.Required.Error("Length is required"),
			validation.Min(0.0).Exclusive().Error("Length must be greater than 0")),
		validation.Field(&d.Width,
			validation.Required.Error("Width is required"),
			validation.Min(0.0).Exclusive().Error("Width must be greater than 0")),
		validation.Field(&d.Height,
			validation.Min(0.0).Error("Height cannot be negative")),
		validation.Field(&d.Quantity, quantityRules...),
	)
}

func finishingValues() []any {
	ret := make([]any, 0, len(Finishings))
	for _, f := range Finishings {
		ret = append(ret, f)
	}
	return ret
}

// validateAdvancedOptions checks the finishing treatment and the classification
// selections required by the material.
func validateAdvancedOptions(d Draft, material Material, policy ClassificationPolicy) error {
	errs := validation.Errors{}

	err := validation.ValidateStruct(&d,
		validation.Field(&d.Finishing,
			validation.Required.Error("Finishing treatment is required"),
			validation.In(finishingValues()...).Error("Finishing treatment is not valid")),
	)
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for k, v := range verrs {
			errs[k] = v
		}
	} else if err != nil {
		return err
	}

	for _, group := range material.Classifications {
		if policy == PolicyLegacyKeys && !slices.Contains(legacyClassificationKeys, group.Key) {
			continue
		}
		if len(group.Options) == 0 {
			continue
		}
		selected := d.Classifications[group.Key]
		switch {
		case selected == "":
			errs["classification_"+group.Key] = fmt.Errorf("%s is required", classificationLabel(group))
		case !group.HasOption(selected):
			errs["classification_"+group.Key] = fmt.Errorf("%s option is not valid", classificationLabel(group))
		}
	}

	return errs.Filter()
}

func classificationLabel(c Classification) string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// errorMessages flattens a validation error into field -> message.
func errorMessages(err error) map[string]string {
	ret := make(map[string]string)
	if err == nil {
		return ret
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, e := range verrs {
			ret[field] = e.Error()
		}
		return ret
	}
	ret["_"] = err.Error()
	return ret
}
