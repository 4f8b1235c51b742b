package platform

import (
	"runtime"
	"strings"
)

// ID is a host platform identifier.
type ID string

const (
	Android ID = "android"
	IOS     ID = "ios"
	Web     ID = "web"
)

// Supported is the only platform that ever had a legacy sandbox directory.
const Supported = Android

// Current returns the platform of the running binary, which is runtime.GOOS
// unchanged.
func Current() ID {
	return ID(runtime.GOOS)
}

// ParseID normalizes a configured platform name.
// An empty value falls back to Current.
func ParseID(s string) ID {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Current()
	}
	return ID(s)
}

// IsSupported reports whether id is the platform that can hold legacy data.
func (id ID) IsSupported() bool {
	return id == Supported
}

func (id ID) String() string {
	return string(id)
}
