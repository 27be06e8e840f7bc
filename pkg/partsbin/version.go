// Package partsbin is the public entry point of the parts inventory: it
// opens a store and builds a workshop over it.
package partsbin

// Version is the partsbin release, recorded in backup documents.
const Version = "0.3.0"

// Name and Description identify the application in backup documents.
const (
	Name        = "partsbin"
	Description = "Drone parts inventory manager"
)
