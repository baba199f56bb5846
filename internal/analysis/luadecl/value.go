package luadecl

import (
	lua "github.com/yuin/gopher-lua"
	"github.com/zclconf/go-cty/cty"
)

// toCty converts a Lua value into the value model used by lists and
// settings. Array-like tables become tuples, other tables become objects
// keyed by the stringified keys.
func toCty(lv lua.LValue) cty.Value {
	switch lv := lv.(type) {
	case *lua.LNilType:
		return cty.NullVal(cty.DynamicPseudoType)
	case lua.LBool:
		return cty.BoolVal(bool(lv))
	case lua.LNumber:
		return cty.NumberFloatVal(float64(lv))
	case lua.LString:
		return cty.StringVal(string(lv))
	case *lua.LTable:
		return tableToCty(lv)
	default:
		return cty.StringVal(lv.String())
	}
}

func tableToCty(tbl *lua.LTable) cty.Value {
	if n := tbl.Len(); n > 0 {
		elems := make([]cty.Value, 0, n)
		for i := 1; i <= n; i++ {
			elems = append(elems, toCty(tbl.RawGetInt(i)))
		}
		return cty.TupleVal(elems)
	}
	attrs := make(map[string]cty.Value)
	tbl.ForEach(func(key, value lua.LValue) {
		attrs[key.String()] = toCty(value)
	})
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}
