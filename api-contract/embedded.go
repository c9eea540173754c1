// Package apicontract embeds the OpenAPI document describing the catalog HTTP API.
// It feeds both the Swagger UI and request validation.
package apicontract

import _ "embed"

//go:embed openapi.yml
var specBytes []byte

// GetSpecBytes returns the embedded openapi.yml.
func GetSpecBytes() []byte {
	return specBytes
}
