package metadata

// classSchema validates one application-class metadata file before it is
// trusted by inference. Keeping this strict catches hand-edited files early
// instead of surfacing as mysterious Any types later.
const classSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["qualifiedName"],
  "additionalProperties": false,
  "properties": {
    "qualifiedName": {"type": "string", "minLength": 1},
    "baseClass": {"type": "string"},
    "methods": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "returns": {"type": "string"},
          "visibility": {"enum": ["public", "protected", "private"]},
          "parameters": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["name"],
              "additionalProperties": false,
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "type": {"type": "string"},
                "out": {"type": "boolean"}
              }
            }
          }
        }
      }
    },
    "properties": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "readonly": {"type": "boolean"},
          "visibility": {"enum": ["public", "protected", "private"]}
        }
      }
    }
  }
}`

// fieldsSchema validates the record-field type map (fields.json).
const fieldsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": {"type": "string", "minLength": 1}
}`
