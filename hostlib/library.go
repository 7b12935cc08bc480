// Package hostlib is the host type system sampled by the engine: value-like
// numeric, text and math types plus mutable containers, each registered with
// its operations in a catalog.Registry.
package hostlib

import (
	"alma.local/iogen/catalog"
	"alma.local/iogen/domains"
)

func static(name string, result domains.TypeDescriptor, params []domains.TypeDescriptor, inv catalog.Invoker) *catalog.Operation {
	return &catalog.Operation{Name: name, Static: true, Params: params, Result: result, Invoke: inv}
}

func method(name string, result domains.TypeDescriptor, params []domains.TypeDescriptor, inv catalog.Invoker) *catalog.Operation {
	return &catalog.Operation{Name: name, Params: params, Result: result, Invoke: inv}
}

func ps(tds ...domains.TypeDescriptor) []domains.TypeDescriptor { return tds }

// Register adds every host type to r in a fixed order.
func Register(r *catalog.Registry) error {
	types := []*catalog.TypeInfo{
		integralType[int8](domains.Int8),
		integralType[int16](domains.Int16),
		integralType[int32](domains.Int32),
		integralType[int64](domains.Int64),
		floatingType[float32](domains.Float32),
		floatingType[float64](domains.Float64),
		boolType(),
		charType(),
		textType(),
		mathType(),
	}
	types = append(types, containerTypes()...)
	for _, t := range types {
		if err := r.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the whole host library.
func NewRegistry() *catalog.Registry {
	r := catalog.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
