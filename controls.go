package pix

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Control represents an editable parameter of a filter.
// When Value is modified via OnChange, the filter uses the new value on its next Process call.
type Control interface {
	// Display/human readable name and description.
	Describe() (name, description string)
	// ActualValue returns the current value of the control.
	ActualValue() any
	// ChangeValue attempts to update the ActualValue to newValue.
	ChangeValue(newValue any) error
}

// ControlKey returns the configuration key of a control: its name
// lower-cased with spaces replaced by underscores, e.g. "Kernel Width" becomes "kernel_width".
func ControlKey(c Control) string {
	name, _ := c.Describe()
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

type number interface {
	integer | ~float32 | ~float64
}

type ControlOrdered[T number] struct {
	Name        string
	Description string
	Value       T
	Min         T
	Max         T
	Step        T
	OnChange    func(T) error
}

func (co *ControlOrdered[T]) Describe() (name, description string) {
	return co.Name, co.Description
}
func (co *ControlOrdered[T]) ActualValue() any { return co.Value }

// ChangeValue accepts a T or any other Go number kind that converts to T
// without losing information, as produced by TOML and YAML decoders.
func (co *ControlOrdered[T]) ChangeValue(newValue any) error {
	v, ok := newValue.(T)
	if !ok {
		var err error
		v, err = convertNumber[T](newValue)
		if err != nil {
			return err
		}
	}
	if v < co.Min || v > co.Max {
		return fmt.Errorf("new value %v exceeds limits %v..%v", v, co.Min, co.Max)
	}
	if co.OnChange != nil {
		if err := co.OnChange(v); err != nil {
			return err
		}
	}
	co.Value = v
	return nil
}

func convertNumber[T number](newValue any) (T, error) {
	var zero T
	var f float64
	switch n := newValue.(type) {
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case float32:
		f = float64(n)
	case float64:
		f = n
	default:
		return zero, fmt.Errorf("new value %T not of type %T", newValue, zero)
	}
	v := T(f)
	if float64(v) != f || math.IsNaN(f) {
		return zero, fmt.Errorf("new value %v not representable as %T", newValue, zero)
	}
	return v, nil
}

type integer interface {
	~int | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// enum best generated with stringer commands.
type enum interface {
	integer
	fmt.Stringer
}

// ControlEnum maps to dropdown kind of list.
type ControlEnum[T enum] struct {
	Name        string
	Description string
	Value       T
	ValidValues []T
	OnChange    func(T) error
}

func (ce *ControlEnum[T]) Describe() (name, description string) {
	return ce.Name, ce.Description
}
func (ce *ControlEnum[T]) ActualValue() any {
	return ce.Value
}

// ChangeValue accepts a T or the String form of one of the valid values.
func (ce *ControlEnum[T]) ChangeValue(newValue any) error {
	v, ok := newValue.(T)
	if !ok {
		s, isString := newValue.(string)
		if !isString {
			return fmt.Errorf("new value %T not of type %T", newValue, ce.Value)
		}
		idx := slices.IndexFunc(ce.ValidValues, func(valid T) bool {
			return strings.EqualFold(valid.String(), s)
		})
		if idx < 0 {
			return fmt.Errorf("value %q not valid for %s", s, ce.Name)
		}
		v = ce.ValidValues[idx]
	}
	if !slices.Contains(ce.ValidValues, v) {
		return fmt.Errorf("value %v of %T not valid", v, v)
	}
	if ce.OnChange != nil {
		if err := ce.OnChange(v); err != nil {
			return err
		}
	}
	ce.Value = v
	return nil
}
