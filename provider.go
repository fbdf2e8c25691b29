// provider.go: External derivation provider plugin interface.
//
// This module provides a plugin-based architecture powered by
// github.com/agilira/go-plugins for deployments that want the keyed
// per-index derivation, or the seed itself, computed inside hardware
// (PKCS#11 tokens, TPMs) instead of in process memory. The built-in
// software path never routes through a provider; providers are opt-in
// for callers whose threat model requires the seed to never exist in
// host RAM.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"context"
	"fmt"
	"sync"
	"time"

	goerrors "github.com/agilira/go-errors"
	goplugins "github.com/agilira/go-plugins"
)

// ProviderCapability represents specific provider capabilities.
type ProviderCapability string

const (
	// Derivation Capabilities
	CapabilitySeedDerivation  ProviderCapability = "seed_derivation"  // memory-hard seed derivation
	CapabilityIndexDerivation ProviderCapability = "index_derivation" // per-index keyed hashing

	// Security Features
	CapabilitySealedSeed     ProviderCapability = "sealed_seed"     // seed never leaves the device
	CapabilityTamperEvidence ProviderCapability = "tamper_evidence" // tamper detection
	CapabilityAccessControl  ProviderCapability = "access_control"  // PIN / role gated access
)

// ProviderRequest represents a request to a derivation provider plugin.
type ProviderRequest struct {
	Operation  string                 `json:"operation"`  // "derive_seed" or "derive_index"
	Index      uint32                 `json:"index"`      // index for derive_index
	Parameters map[string]interface{} `json:"parameters"` // provider-specific parameters
}

// ProviderResponse represents a response from a derivation provider plugin.
type ProviderResponse struct {
	Success  bool                   `json:"success"`  // operation success status
	Password string                 `json:"password"` // 128-char hex result for derive_index
	Error    string                 `json:"error"`    // error message (if any)
	Metadata map[string]interface{} `json:"metadata"` // response metadata
}

// Provider defines the interface that all derivation provider plugins
// must implement. Implementations must uphold the same contract as the
// software path: DeriveIndex is a pure function of the device-held seed
// and the index, returning 128 lowercase hex characters.
type Provider interface {
	// Provider Information
	Name() string                       // provider name (e.g. "pkcs11", "tpm2")
	Version() string                    // provider version
	Capabilities() []ProviderCapability // supported capabilities

	// Lifecycle Management
	Initialize(ctx context.Context, config map[string]interface{}) error
	Close() error
	IsHealthy() bool

	// Derivation Operations
	EstablishSeed(ctx context.Context, username, password *SecureString, params *KDFParams) error
	DeriveIndex(ctx context.Context, index uint32) (string, error)
	EraseSeed(ctx context.Context) error
}

// ProviderManager manages derivation providers using the go-plugins
// framework.
type ProviderManager struct {
	mu              sync.RWMutex
	pluginManager   *goplugins.Manager[ProviderRequest, ProviderResponse]
	activeProviders map[string]Provider
	defaultProvider string
	config          *ProviderManagerConfig
}

// ProviderManagerConfig provides configuration for the provider manager.
type ProviderManagerConfig struct {
	DefaultProvider     string                            `json:"default_provider"`      // default provider to use
	ProviderConfigs     map[string]map[string]interface{} `json:"provider_configs"`      // per-provider configurations
	HealthCheckInterval time.Duration                     `json:"health_check_interval"` // health check frequency
	OperationTimeout    time.Duration                     `json:"operation_timeout"`     // default operation timeout
}

// Common provider errors with proper error codes for auditing.
var (
	ErrProviderNotFound    = goerrors.New(ErrCodeProviderNotFound, "derivation provider not found")
	ErrProviderUnhealthy   = goerrors.New(ErrCodeProviderHealth, "derivation provider failed health check")
	ErrProviderUnsupported = goerrors.New(ErrCodeProviderNotFound, "operation not supported by provider")
)

// NewProviderManager creates a new provider manager with plugin support.
func NewProviderManager(config *ProviderManagerConfig, pluginManager *goplugins.Manager[ProviderRequest, ProviderResponse]) (*ProviderManager, error) {
	if config == nil {
		config = &ProviderManagerConfig{
			HealthCheckInterval: 30 * time.Second,
			OperationTimeout:    10 * time.Second,
		}
	}

	manager := &ProviderManager{
		pluginManager:   pluginManager,
		activeProviders: make(map[string]Provider),
		config:          config,
	}

	return manager, nil
}

// RegisterProvider registers a derivation provider with the manager.
func (m *ProviderManager) RegisterProvider(name string, provider Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	ctx := context.Background()
	if timeout := m.config.OperationTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	providerConfig := m.config.ProviderConfigs[name]
	if err := provider.Initialize(ctx, providerConfig); err != nil {
		return fmt.Errorf("failed to initialize provider %s: %w", name, err)
	}

	m.activeProviders[name] = provider

	// Set as default if it's the first provider or explicitly configured
	if m.defaultProvider == "" || m.config.DefaultProvider == name {
		m.defaultProvider = name
	}

	return nil
}

// GetProvider returns a derivation provider by name. An empty name
// selects the default provider. The provider is health-checked before
// being handed out.
func (m *ProviderManager) GetProvider(name string) (Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if name == "" {
		name = m.defaultProvider
	}

	provider, exists := m.activeProviders[name]
	if !exists {
		return nil, fmt.Errorf("%w: provider %s", ErrProviderNotFound, name)
	}

	if !provider.IsHealthy() {
		return nil, fmt.Errorf("%w: provider %s", ErrProviderUnhealthy, name)
	}

	return provider, nil
}

// Close shuts down all registered providers.
func (m *ProviderManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error

	for name, provider := range m.activeProviders {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close some providers: %v", errs)
	}

	return nil
}
