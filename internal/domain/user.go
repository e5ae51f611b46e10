package domain

type contextKey string

// Context keys set by middleware.
const (
	UserContextKey   contextKey = "user"
	TenantContextKey contextKey = "tenant"
)

// User is the authenticated principal reconstructed from token claims.
// Authentication itself is an external collaborator; the engine only needs
// identity and role for actor attribution and admin gating.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	TenantID string `json:"tenantId,omitempty"`
}
