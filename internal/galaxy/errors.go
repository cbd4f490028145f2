package galaxy

import (
	"errors"
	"fmt"
)

// Domain errors for galaxy generation.
var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("galaxy: parameter out of valid bounds")

	// ErrInvalidColor indicates a color string that is not a #rrggbb hex value.
	ErrInvalidColor = errors.New("galaxy: invalid color")

	// ErrUnknownLayout indicates a layout other than spiral or scatter.
	ErrUnknownLayout = errors.New("galaxy: unknown layout")

	// ErrUnknownVariant indicates a variant name that is not registered.
	ErrUnknownVariant = errors.New("galaxy: unknown variant")

	// ErrUnknownParam indicates a control key that does not exist.
	ErrUnknownParam = errors.New("galaxy: unknown parameter")
)

// ParamError wraps ErrParameterBounds with the offending field.
type ParamError struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s=%g not in [%g, %g]", ErrParameterBounds, e.Field, e.Value, e.Min, e.Max)
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}
