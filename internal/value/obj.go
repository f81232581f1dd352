package value

type ObjValue map[string]Value

func Obj(args map[string]any) ObjValue {
	res := make(ObjValue, len(args))
	for k, v := range args {
		res[k] = New(v)
	}
	return res
}

func (o ObjValue) Type() ValueType {
	return ObjType
}

func IsObj(v Value) bool {
	return v.Type() == ObjType
}

func (o ObjValue) Cast(t ValueType) Value {
	return Null()
}

func (o ObjValue) String() string {
	return "[object Object]"
}

// Path walks a dotted field path, descending into nested ObjValues.
// A missing key at any level yields Null.
func (o ObjValue) Path(path ...string) Value {
	var current Value = o
	for _, name := range path {
		obj, ok := current.(ObjValue)
		if !ok {
			return Null()
		}
		v, ok := obj[name]
		if !ok {
			return Null()
		}
		current = v
	}
	return current
}
