// Package permissions maps roles to capability sets. Callers ask a yes/no
// question (HasCapability) before acting; what a capability means for
// rendering or routing is the caller's concern.
//
// Capability format:
//   - "*" - full access
//   - "stock.*" - all stock actions
//   - "stock.read" - a specific action
package permissions

import (
	"strings"
)

// Capabilities used by the stock service.
const (
	CapStockRead   = "stock.read"
	CapStockWrite  = "stock.write"
	CapStockDelete = "stock.delete"
	CapStockAdjust = "stock.adjust"
	CapStockExport = "stock.export"
)

// roleCapabilities is the built-in role matrix. Roles not listed here fall
// back to the worker set.
var roleCapabilities = map[string][]string{
	"admin": {"*"},
	"manager": {
		CapStockRead, CapStockWrite, CapStockAdjust, CapStockExport,
	},
	"supervisor": {
		CapStockRead, CapStockWrite, CapStockAdjust, CapStockExport,
	},
	"worker": {
		CapStockRead, CapStockAdjust,
	},
	"usher": {
		CapStockRead,
	},
}

// RoleCapabilities returns the capability set for a role. Unknown roles get
// the worker set.
func RoleCapabilities(role string) []string {
	if caps, ok := roleCapabilities[role]; ok {
		return caps
	}
	return roleCapabilities["worker"]
}

// HasCapability reports whether the role's capability set covers the required
// action. Supports wildcard matching:
//   - "*" matches everything
//   - "stock.*" matches "stock.read", "stock.write", etc.
func HasCapability(role, required string) bool {
	if required == "" {
		return true // No capability required
	}

	for _, c := range RoleCapabilities(role) {
		if c == "*" {
			return true
		}
		if c == required {
			return true
		}
		if strings.HasSuffix(c, ".*") {
			prefix := strings.TrimSuffix(c, ".*")
			if strings.HasPrefix(required, prefix+".") {
				return true
			}
		}
	}
	return false
}

// HasAnyCapability reports whether the role holds any of the required
// capabilities.
func HasAnyCapability(role string, required []string) bool {
	for _, req := range required {
		if HasCapability(role, req) {
			return true
		}
	}
	return false
}
