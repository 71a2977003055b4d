package parameter

import (
	"context"
	"fmt"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// TypeDynamicChoice identifies the dynamic choice parameter kind.
const TypeDynamicChoice = "dynamic-choice"

// Ensure ChoiceParameter implements the host contract.
var (
	_ pkg.Definition   = (*ChoiceParameter)(nil)
	_ pkg.ChoiceLister = (*ChoiceParameter)(nil)
)

// ChoiceParameter is a choice parameter whose list of values is generated by
// its script each time it is needed.
type ChoiceParameter struct {
	*Base
}

// NewChoiceParameter creates a ChoiceParameter for spec.
func NewChoiceParameter(spec pkg.Spec, evaluator pkg.Evaluator, opts ...Option) (*ChoiceParameter, error) {
	base, err := NewBase(spec, evaluator, opts...)
	if err != nil {
		return nil, err
	}
	return &ChoiceParameter{Base: base}, nil
}

// Descriptor implements pkg.Definition.
func (p *ChoiceParameter) Descriptor() pkg.Descriptor {
	return pkg.Descriptor{
		Type:        TypeDynamicChoice,
		DisplayName: "Dynamic Choice Parameter",
	}
}

// Choices returns the values generated by the script.
// A script that returns nothing, or something other than a list, yields no choices.
func (p *ChoiceParameter) Choices(ctx context.Context) []any {
	value := p.Evaluate(ctx)

	if value == nil {
		p.logger.Warn("script for parameter returned null")
		return []any{}
	}

	choices, ok := listElements(value)
	if !ok {
		p.logger.Warn("script for parameter did not return a list", "type", fmt.Sprintf("%T", value))
		return []any{}
	}

	return choices
}

// CreateValueFromJSON implements pkg.Definition.
func (p *ChoiceParameter) CreateValueFromJSON(ctx context.Context, form pkg.Form, data []byte) (pkg.Value, error) {
	var v pkg.StringValue
	if err := form.BindJSON(data, &v); err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrMalformedSubmission, p.spec.Name, err)
	}
	if v.Name == "" {
		v.Name = p.spec.Name
	}
	v.Description = p.spec.Description

	return p.checkValue(ctx, &v)
}

// CreateValue implements pkg.Definition.
func (p *ChoiceParameter) CreateValue(ctx context.Context, form pkg.Form) (pkg.Value, error) {
	values := form.ParameterValues(p.spec.Name)

	switch len(values) {
	case 0:
		return p.DefaultValue(ctx), nil
	case 1:
		return p.checkValue(ctx, pkg.NewStringValue(p.spec.Name, values[0], p.spec.Description))
	default:
		return nil, fmt.Errorf("%w for %s: %d", ErrIllegalValueCount, p.spec.Name, len(values))
	}
}

// checkValue returns value if it is one of the current choices.
func (p *ChoiceParameter) checkValue(ctx context.Context, value *pkg.StringValue) (pkg.Value, error) {
	for _, choice := range p.Choices(ctx) {
		form, ok := StringForm(choice)
		if !ok {
			if value.Value == nil {
				return value, nil
			}
			continue
		}
		if value.Value != nil && form == *value.Value {
			return value, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidChoice, value)
}
