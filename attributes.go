package twitter

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Attributes is a loosely typed key/value map decoded from a JSON response.
// Numbers are kept as json.Number so 64-bit IDs survive decoding.
type Attributes map[string]any

// Params are the logical parameters of a remote call.
type Params map[string]any

// Construct assigns every key of attrs that names a field of dst (by its json tag).
// Keys without a matching field are ignored. Scalars are converted weakly and a
// list sent for a string field is joined with ", ".
func Construct(attrs Attributes, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       joinListHook,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(attrs))
}

func joinListHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
		return data, nil
	}
	v := reflect.ValueOf(data)
	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}
	return strings.Join(parts, ", "), nil
}
