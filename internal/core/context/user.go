// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// FarmerContext contains the authenticated farmer identity.
// FarmerID is the ownership boundary: every inventory query is scoped to it.
type FarmerContext struct {
	FarmerID  string
	UserID    string
	Email     string
	Roles     []string
	IsAdmin   bool
	SessionID string
}

type farmerContextKey struct{}

// WithFarmer adds FarmerContext to context.
func WithFarmer(ctx context.Context, farmer *FarmerContext) context.Context {
	return context.WithValue(ctx, farmerContextKey{}, farmer)
}

// GetFarmer returns FarmerContext from context.
func GetFarmer(ctx context.Context) *FarmerContext {
	if v, ok := ctx.Value(farmerContextKey{}).(*FarmerContext); ok {
		return v
	}
	return nil
}

// GetFarmerID returns farmer ID from context or empty string.
func GetFarmerID(ctx context.Context) string {
	if f := GetFarmer(ctx); f != nil {
		return f.FarmerID
	}
	return ""
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if f := GetFarmer(ctx); f != nil {
		return f.UserID
	}
	return ""
}

// HasRole checks if the authenticated user has a specific role.
func HasRole(ctx context.Context, role string) bool {
	f := GetFarmer(ctx)
	if f == nil {
		return false
	}
	for _, r := range f.Roles {
		if r == role {
			return true
		}
	}
	return false
}
