package rules

// Record exposes the named attributes a condition can reference. Callers
// build one from an explicit field-accessor map per record type rather than
// reflection, so the set of rule-visible attributes is always spelled out.
type Record interface {
	Attribute(name string) (interface{}, bool)
}

// AttributeMap is the simplest Record: a flat map of attribute values.
type AttributeMap map[string]interface{}

// Attribute implements Record.
func (m AttributeMap) Attribute(name string) (interface{}, bool) {
	v, ok := m[name]
	return v, ok
}
