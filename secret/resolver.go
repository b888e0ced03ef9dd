package secret

import (
	"context"
	"fmt"
	"strings"
)

// Resolver resolves secret references using registered providers.
//
// Values with the prefix "secretref:" are resolved via providers. Other
// values are returned after strict environment expansion.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver. The env provider is always registered.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider)}
	r.Register(EnvProvider{})
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds a provider, replacing any with the same name.
func (r *Resolver) Register(provider Provider) {
	if provider == nil {
		return
	}
	r.providers[provider.Name()] = provider
}

// ResolveValue resolves environment variables and secret refs in value.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}
	providerName, ref, ok := ParseSecretRef(expanded)
	if !ok {
		return expanded, nil
	}

	provider, registered := r.providers[providerName]
	if !registered {
		return "", fmt.Errorf("secret provider %q is not registered", providerName)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		return "", fmt.Errorf("secret provider %q returned empty value", providerName)
	}
	return resolved, nil
}

// ParseSecretRef parses a secret reference of the form:
//
//	secretref:<provider>:<ref>
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	const prefix = "secretref:"
	if !strings.HasPrefix(value, prefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, prefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
