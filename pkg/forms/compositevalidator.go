package forms

import "github.com/strata-dev/strata/pkg/validate"

// CompositeValidator runs an ordered chain of validators and combines
// their results. Every child always runs, even after earlier children
// fail, so a single submission reports every problem the chain can find.
type CompositeValidator struct {
	ValidatorBase
	validators []Validator
}

// NewCompositeValidator creates a chain over the given validators.
func NewCompositeValidator(validators ...Validator) *CompositeValidator {
	return &CompositeValidator{
		ValidatorBase: NewValidatorBase(),
		validators:    validators,
	}
}

// SetForm binds the chain and every child to the form.
func (c *CompositeValidator) SetForm(form *Form) {
	c.ValidatorBase.SetForm(form)
	for _, v := range c.validators {
		v.SetForm(form)
	}
}

// AddValidator appends a validator to the chain.
func (c *CompositeValidator) AddValidator(v Validator) *CompositeValidator {
	c.validators = append(c.validators, v)
	if form := c.Form(); form != nil {
		v.SetForm(form)
	}
	return c
}

// Validators returns the chain in order.
func (c *CompositeValidator) Validators() []Validator {
	return append([]Validator(nil), c.validators...)
}

// Validate runs every child and combines the results. The combined
// result is valid only when every child result is valid. A disabled
// chain returns an empty, valid result without running anything.
func (c *CompositeValidator) Validate() *validate.Result {
	c.ResetResult()
	if !c.Enabled() {
		return c.Result()
	}
	for _, v := range c.validators {
		c.Result().Combine(v.Validate())
	}
	return c.Result()
}

// CanBeCached is true only when every child can be cached.
func (c *CompositeValidator) CanBeCached() bool {
	for _, v := range c.validators {
		if !v.CanBeCached() {
			return false
		}
	}
	return true
}

// RemoveValidatorsByType drops every chain member of type V.
func RemoveValidatorsByType[V Validator](c *CompositeValidator) *CompositeValidator {
	kept := c.validators[:0]
	for _, v := range c.validators {
		if _, ok := v.(V); !ok {
			kept = append(kept, v)
		}
	}
	c.validators = kept
	return c
}

// ValidatorsByType returns the chain members of type V, in chain order.
func ValidatorsByType[V Validator](c *CompositeValidator) []V {
	var out []V
	for _, v := range c.validators {
		if match, ok := v.(V); ok {
			out = append(out, match)
		}
	}
	return out
}
