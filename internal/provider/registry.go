package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry manages all payment providers
type Registry struct {
	providers map[ProviderType]Provider
	fallback  ProviderType
	mu        sync.RWMutex
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[ProviderType]Provider),
	}
}

// RegisterProvider adds a provider to the registry. The first registered
// provider becomes the default.
func (r *Registry) RegisterProvider(providerType ProviderType, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[providerType] = provider
	if r.fallback == "" {
		r.fallback = providerType
	}
	log.Info().
		Str("provider", string(providerType)).
		Str("name", provider.Name()).
		Strs("operations", operationTypesToStrings(provider.SupportedOperations())).
		Msg("registered payment provider")
}

// GetProvider returns a provider by type. An empty type selects the default.
func (r *Registry) GetProvider(providerType ProviderType) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if providerType == "" {
		providerType = r.fallback
	}
	provider, ok := r.providers[providerType]
	if !ok {
		return nil, &ProviderError{
			Code:    "provider_not_found",
			Message: fmt.Sprintf("provider %s not registered", providerType),
		}
	}
	return provider, nil
}

// ListProviders returns all registered provider types
func (r *Registry) ListProviders() []ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []ProviderType
	for t := range r.providers {
		types = append(types, t)
	}
	return types
}

// GetProviderInfo returns detailed information about a provider
func (r *Registry) GetProviderInfo(providerType ProviderType) (*ProviderInfo, error) {
	provider, err := r.GetProvider(providerType)
	if err != nil {
		return nil, err
	}

	return &ProviderInfo{
		Type:                providerType,
		Name:                provider.Name(),
		SupportedOperations: provider.SupportedOperations(),
		RequiredCredentials: provider.RequiredCredentialFields(),
	}, nil
}

// QueryState checks transaction state through the appropriate provider
func (r *Registry) QueryState(ctx context.Context, providerType ProviderType, q StateQuery, posID string) (StateResult, error) {
	provider, err := r.GetProvider(providerType)
	if err != nil {
		return nil, err
	}

	op := OpStatus
	if q.Report != nil {
		op = OpReport
	}
	if !r.supportsOperation(provider, op) {
		return nil, &ProviderError{
			Code:    "operation_not_supported",
			Message: fmt.Sprintf("provider %s does not support %s", provider.Name(), op),
		}
	}

	return provider.QueryState(ctx, q, posID)
}

// BoundQuerier queries state through one provider type of a registry.
type BoundQuerier struct {
	registry     *Registry
	providerType ProviderType
}

// QueryStateFor binds a provider type so callers only pass the query.
func (r *Registry) QueryStateFor(providerType ProviderType) BoundQuerier {
	return BoundQuerier{registry: r, providerType: providerType}
}

func (b BoundQuerier) QueryState(ctx context.Context, q StateQuery, posID string) (StateResult, error) {
	return b.registry.QueryState(ctx, b.providerType, q, posID)
}

// Checkout builds payment form data through the appropriate provider
func (r *Registry) Checkout(providerType ProviderType, posID string) (*Checkout, error) {
	provider, err := r.GetProvider(providerType)
	if err != nil {
		return nil, err
	}

	if !r.supportsOperation(provider, OpNewPayment) {
		return nil, &ProviderError{
			Code:    "operation_not_supported",
			Message: fmt.Sprintf("provider %s does not build payment forms", provider.Name()),
		}
	}

	return provider.Checkout(posID)
}

// Helper types and functions

// ProviderInfo contains metadata about a provider
type ProviderInfo struct {
	Type                ProviderType      `json:"type"`
	Name                string            `json:"name"`
	SupportedOperations []OperationType   `json:"supported_operations"`
	RequiredCredentials []CredentialField `json:"required_credentials"`
}

// supportsOperation checks if a provider supports a specific operation
func (r *Registry) supportsOperation(provider Provider, operation OperationType) bool {
	for _, op := range provider.SupportedOperations() {
		if op == operation {
			return true
		}
	}
	return false
}

// operationTypesToStrings converts operation types to strings for logging
func operationTypesToStrings(ops []OperationType) []string {
	var strs []string
	for _, op := range ops {
		strs = append(strs, string(op))
	}
	return strs
}
