package parameter

// Value is a bound parameter value handed back to the host.
type Value interface {
	// ParameterName returns the name of the parameter the value belongs to.
	ParameterName() string
}

// StringValue is a parameter value holding a single, possibly null, string.
type StringValue struct {
	Name        string  `json:"name"`
	Value       *string `json:"value"`
	Description string  `json:"description,omitempty"`
}

// NewStringValue returns a StringValue holding value.
func NewStringValue(name, value, description string) *StringValue {
	return &StringValue{
		Name:        name,
		Value:       &value,
		Description: description,
	}
}

// ParameterName implements Value.
func (v *StringValue) ParameterName() string {
	return v.Name
}

// IsNull reports whether the value is null.
func (v *StringValue) IsNull() bool {
	return v.Value == nil
}

// String returns the value, or "null" when the value is null.
func (v *StringValue) String() string {
	if v.Value == nil {
		return "null"
	}
	return *v.Value
}
