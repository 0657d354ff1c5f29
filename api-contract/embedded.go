package apicontract

import _ "embed"

//go:embed openapi.yml
var specBytes []byte

// GetSpecBytes returns the embedded OpenAPI document describing the product
// and auth endpoints.
func GetSpecBytes() []byte {
	return specBytes
}
