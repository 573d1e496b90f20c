// ABOUTME: Version and product identification constants
// ABOUTME: Reported by the CLIs and in startup logs
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
var Version = "0.1.0"

const (
	Product      = "Sawt Player"
	Manufacturer = "Sawt Lab"
)

// String returns the product banner
func String() string {
	return Product + " " + Version
}
