package tools

// JSON Schema builders for tool input declarations. The maps are handed to
// the chat model and the tool server RPC as-is.

func property(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

// ObjectSchema builds an object schema from named properties. The required
// key is omitted when no field is required.
func ObjectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProperty declares a string field.
func StringProperty(description string) map[string]interface{} {
	return property("string", description)
}

// StringEnumProperty declares a string field restricted to the given values.
func StringEnumProperty(description string, values ...string) map[string]interface{} {
	p := property("string", description)
	p["enum"] = values
	return p
}

// NumberProperty declares a numeric field.
func NumberProperty(description string) map[string]interface{} {
	return property("number", description)
}

// IntegerProperty declares an integer field.
func IntegerProperty(description string) map[string]interface{} {
	return property("integer", description)
}

// BooleanProperty declares a boolean field.
func BooleanProperty(description string) map[string]interface{} {
	return property("boolean", description)
}
