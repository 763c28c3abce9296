// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health checks - Public
	"Health": SecurityPublic,

	// Dashboard - Access Protected
	"GetActivityFeed":     SecurityAccess,
	"GetDashboardSummary": SecurityAccess,

	// Lendings - Access Protected
	"PreviewReturn": SecurityAccess,
	"ProcessReturn": SecurityAccess,
	"CreateLending": SecurityAccess,

	// Fines - Access Protected
	"CreateFine":       SecurityAccess,
	"ListPendingFines": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAccess
}
