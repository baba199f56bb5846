package entry

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// JSONValue serialises a cty value as its plain JSON form, with the type
// implied on decode. Absent values serialise as JSON null.
type JSONValue struct {
	cty.Value
}

func (v JSONValue) MarshalJSON() ([]byte, error) {
	if v.Value == cty.NilVal || v.Value.IsNull() {
		return []byte("null"), nil
	}
	return ctyjson.SimpleJSONValue{Value: v.Value}.MarshalJSON()
}

func (v *JSONValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.Value = cty.NullVal(cty.DynamicPseudoType)
		return nil
	}
	var simple ctyjson.SimpleJSONValue
	if err := simple.UnmarshalJSON(data); err != nil {
		return err
	}
	v.Value = simple.Value
	return nil
}

// SpokenForms extracts the literal alternatives of a list value: the keys of
// an object/map value, the elements of a tuple/list/set value, or the value
// itself when it is a single string. Unknown and null values have no
// alternatives.
func SpokenForms(v cty.Value) []string {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType() || ty.IsMapType():
		keys := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, _ := it.Element()
			keys = append(keys, k.AsString())
		}
		sort.Strings(keys)
		return keys
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		forms := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if s, err := convert.Convert(elem, cty.String); err == nil && !s.IsNull() {
				forms = append(forms, s.AsString())
			}
		}
		return forms
	case ty == cty.String:
		return []string{v.AsString()}
	default:
		return nil
	}
}
