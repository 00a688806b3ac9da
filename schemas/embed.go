// Package schemas embeds the JSON Schemas for configuration files and batch
// reports.
package schemas

import "embed"

// Schema file names
const (
	Policy = "policy.schema.json"
	Report = "report.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
