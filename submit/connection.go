package submit

const entityConnection = "connection"

// validateConnection checks the connection block and keeps nothing of it.
// Every problem found here is a drop.
func validateConnection(raw interface{}) *Fault {
	if raw == nil {
		return nil
	}
	obj, ok := asObject(raw)
	if !ok {
		return dropFault(entityConnection, "", "not an object")
	}
	if _, state := stringField(obj["ip"], 0); state == fieldMismatch || state == fieldInvalid {
		return dropFault(entityConnection, "ip", state.String())
	}
	return nil
}
