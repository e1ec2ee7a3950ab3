package v1

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

// optional decodes a request field that may be absent, null or set.
type optional[T any] struct {
	set   bool
	value *T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if string(data) == "null" {
		o.value = nil
		return nil
	}

	var v T
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	o.value = &v
	return nil
}

// validationValue exposes the decoded value to binding rules. Absent
// and null fields yield nil, so omitempty skips them.
func (o optional[T]) validationValue() any {
	if o.value == nil {
		return nil
	}
	return *o.value
}

func (o optional[T]) field() services.Optional[T] {
	return services.Optional[T]{Set: o.set, Value: o.value}
}

// mapOptional converts a set value with fn and keeps absent and null as is.
func mapOptional[T, U any](o optional[T], fn func(T) U) services.Optional[U] {
	if o.value == nil {
		return services.Optional[U]{Set: o.set}
	}
	return services.Some(fn(*o.value))
}

func registerOptionalTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(
		func(field reflect.Value) any {
			o, ok := field.Interface().(interface{ validationValue() any })
			if !ok {
				return nil
			}
			return o.validationValue()
		},
		optional[string]{},
		optional[int]{},
		optional[int64]{},
		optional[bool]{},
	)
}
