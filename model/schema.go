package model

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// Schema returns the JSON Schema of the serialized document.
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Document](nil)
	if err != nil {
		return nil, err
	}
	s.Title = "docstruct document"
	return s, nil
}

// SchemaJSON returns the indented JSON form of [Schema].
func SchemaJSON() ([]byte, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}
