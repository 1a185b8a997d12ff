package codecs

import (
	"reflect"

	"github.com/eluv-io/arrayipc-go/format/stats"
	"github.com/eluv-io/errors-go"
)

// ScalarConverter marshals/unmarshals a stats.Scalar to/from a byte string.
// Scalars are opaque: the bytes pass through unchanged in both directions.
type ScalarConverter struct{}

func (x *ScalarConverter) ConvertExt(v interface{}) interface{} {
	switch t := v.(type) {
	case stats.Scalar:
		return []byte(t)
	case *stats.Scalar:
		return []byte(*t)
	default:
		panic(errors.E("ScalarConverter.ConvertExt", errors.K.Invalid,
			"expected_types", []string{"stats.Scalar", "*stats.Scalar"},
			"actual_type", reflect.TypeOf(v).String()))
	}
}

func (x *ScalarConverter) UpdateExt(dest interface{}, v interface{}) {
	dst := dest.(*stats.Scalar)
	switch t := dereference(v).Interface().(type) {
	case []byte:
		*dst = t
	default:
		panic(errors.E("ScalarConverter.UpdateExt", errors.K.Invalid,
			"expected_types", []string{"[]byte"},
			"actual_type", reflect.TypeOf(t).String()))
	}
}

// dereference follows pointers until reaching a non-pointer value.
func dereference(v interface{}) reflect.Value {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	return rv
}
