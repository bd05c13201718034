package submit

// fields coerces the keys of one raw JSON object. In strict mode the first
// type mismatch is kept as a fatal fault; otherwise mismatching fields are
// simply left out like any other unusable value.
type fields struct {
	entity string
	raw    map[string]interface{}
	strict bool
	fault  *Fault
}

func strictFields(entity string, raw map[string]interface{}) *fields {
	return &fields{entity: entity, raw: raw, strict: true}
}

func lenientFields(entity string, raw map[string]interface{}) *fields {
	return &fields{entity: entity, raw: raw}
}

func (f *fields) check(name string, state fieldState) bool {
	if state == fieldMismatch && f.strict && f.fault == nil {
		f.fault = mismatch(f.entity, name)
	}
	return state == fieldOK
}

func (f *fields) optInt(name string, min, max int64) *int64 {
	v, state := intField(f.raw[name], min, max)
	if !f.check(name, state) {
		return nil
	}
	return intPtr(v)
}

func (f *fields) optFloat(name string, min, max float64) *float64 {
	v, state := floatField(f.raw[name], min, max)
	if !f.check(name, state) {
		return nil
	}
	return floatPtr(v)
}

func (f *fields) optString(name string, maxLen int) *string {
	v, state := stringField(f.raw[name], maxLen)
	if !f.check(name, state) {
		return nil
	}
	return stringPtr(v)
}

func (f *fields) optEnum(name string, table enumTable) *string {
	v, state := enumField(f.raw[name], table)
	if !f.check(name, state) {
		return nil
	}
	return stringPtr(v)
}

func (f *fields) mac(name string) (string, bool) {
	v, state := macField(f.raw[name])
	return v, f.check(name, state)
}

func asObject(raw interface{}) (map[string]interface{}, bool) {
	m, ok := raw.(map[string]interface{})
	return m, ok
}

// Shared ranges, in milliseconds for ages.
const (
	minAge = -3600000
	maxAge = 3600000
)
