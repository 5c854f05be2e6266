// Package utils contains small helper functions used across the
// project that don't belong to a specific domain.
package utils

import (
	"encoding/json"
	"fmt"
)

// PrintJSON pretty-prints any Go value as indented JSON to stdout.
// Useful for debugging structs and responses during development.
func PrintJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		fmt.Println("Error marshalling the JSON:", err)
		return
	}
	fmt.Println("JSON:", string(out))
}
