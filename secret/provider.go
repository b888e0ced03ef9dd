package secret

import (
	"context"
	"fmt"
	"os"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret
// values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider resolves references against environment variables.
type EnvProvider struct{}

// Name returns "env".
func (EnvProvider) Name() string { return "env" }

// Resolve returns the value of the named environment variable, failing when
// it is unset or empty.
func (EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok || value == "" {
		return "", fmt.Errorf("secret: environment variable %s is not set", ref)
	}
	return value, nil
}

// StaticProvider serves secrets from a fixed map. Test and development helper.
type StaticProvider struct {
	name    string
	secrets map[string]string
}

// NewStaticProvider creates a provider named name serving secrets.
func NewStaticProvider(name string, secrets map[string]string) *StaticProvider {
	return &StaticProvider{name: name, secrets: secrets}
}

// Name returns the provider name.
func (p *StaticProvider) Name() string { return p.name }

// Resolve returns the mapped value for ref.
func (p *StaticProvider) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := p.secrets[ref]
	if !ok {
		return "", fmt.Errorf("secret: %s has no entry for %q", p.name, ref)
	}
	return value, nil
}
