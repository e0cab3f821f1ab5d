// Package schemas embeds the JSON Schemas for user-authored files.
package schemas

import _ "embed"

// RunSchemaJSON is the schema for run spec files passed to `benchctl run`.
//
//go:embed run.schema.json
var RunSchemaJSON string
