package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD /route-template" to the required security level.
// Templates are the mux path templates relative to /api/v1.
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"POST /auth/token": SecurityPublic,

	// Settings
	"GET /settings": SecurityAccess,

	// Bookings
	"GET /bookings":                SecurityAccess,
	"POST /bookings":               SecurityAccess,
	"POST /bookings/quote":         SecurityAccess,
	"GET /bookings/{id}":           SecurityAccess,
	"PUT /bookings/{id}":           SecurityAccess,
	"DELETE /bookings/{id}":        SecurityAccess,
	"PATCH /bookings/{id}/status":  SecurityAccess,
	"POST /bookings/{id}/advances": SecurityAccess,

	// Items
	"GET /items":                   SecurityAccess,
	"POST /items":                  SecurityAccess,
	"GET /items/{id}":              SecurityAccess,
	"DELETE /items/{id}":           SecurityAccess,
	"GET /items/{id}/availability": SecurityAccess,

	// Customers
	"GET /customers":                       SecurityAccess,
	"POST /customers":                      SecurityAccess,
	"GET /customers/{id}":                  SecurityAccess,
	"GET /customers/{id}/stats":            SecurityAccess,
	"POST /customers/{id}/stats/recompute": SecurityAccess,

	// Partners
	"GET /partners/{id}/payout": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
