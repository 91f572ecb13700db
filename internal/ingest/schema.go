package ingest

const exportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "attributes": {
            "type": "object",
            "properties": {
              "title": {"type": ["object", "null"]},
              "altTitles": {
                "type": ["array", "null"],
                "items": {"type": "object"}
              }
            }
          }
        }
      }
    }
  }
}`
