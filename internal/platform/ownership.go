package platform

import (
	"fmt"
	"strings"
)

// Ownership describes who owns the running application process.
type Ownership int

const (
	// OwnershipUnknown is used when the host did not report an ownership mode,
	// as happens for bare builds.
	OwnershipUnknown Ownership = iota
	// OwnershipStandalone is an installed build of the app itself.
	OwnershipStandalone
	// OwnershipExpo is the app running inside the shared preview client.
	OwnershipExpo
	// OwnershipGuest is the app loaded by another host application.
	OwnershipGuest
)

// ParseOwnership converts a configured ownership name into an Ownership.
// The empty string maps to OwnershipUnknown.
func ParseOwnership(s string) (Ownership, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return OwnershipUnknown, nil
	case "standalone":
		return OwnershipStandalone, nil
	case "expo":
		return OwnershipExpo, nil
	case "guest":
		return OwnershipGuest, nil
	default:
		return OwnershipUnknown, fmt.Errorf("unknown ownership mode %q (want standalone, expo or guest)", s)
	}
}

// String returns the host's name for the ownership mode.
func (o Ownership) String() string {
	switch o {
	case OwnershipStandalone:
		return "standalone"
	case OwnershipExpo:
		return "expo"
	case OwnershipGuest:
		return "guest"
	default:
		return "unknown"
	}
}
