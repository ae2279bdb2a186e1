// Package cep declares the outbound address-lookup-by-zipcode
// capability. No provider is wired up; lookups always come back
// unavailable and clients fill the address in manually.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/task-tracker/validation"
)

// LookupRequest asks for the address behind a zipcode.
type LookupRequest struct {
	Zipcode string `json:"zipcode"`
}

// LookupResponse reports whether a lookup result is available.
type LookupResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

// CepModule provides the zipcode lookup service.
type CepModule struct{}

// Compile-time interface checks.
var _ mono.Module = (*CepModule)(nil)
var _ mono.ServiceProviderModule = (*CepModule)(nil)

// NewModule creates a new CepModule.
func NewModule() *CepModule {
	return &CepModule{}
}

// Name returns the module name.
func (m *CepModule) Name() string {
	return "cep"
}

// Start initializes the module.
func (m *CepModule) Start(_ context.Context) error {
	log.Println("[cep] Module started (no lookup provider configured)")
	return nil
}

// Stop shuts down the module.
func (m *CepModule) Stop(_ context.Context) error {
	log.Println("[cep] Module stopped")
	return nil
}

// RegisterServices registers request-reply services in the service
// container.
func (m *CepModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "lookup", json.Unmarshal, json.Marshal, m.handleLookup,
	); err != nil {
		return fmt.Errorf("failed to register lookup service: %w", err)
	}
	log.Printf("[cep] Registered services: lookup")
	return nil
}

// handleLookup validates the zipcode shape and reports that no lookup
// provider is available.
func (m *CepModule) handleLookup(_ context.Context, req LookupRequest, _ *mono.Msg) (LookupResponse, error) {
	if _, err := validation.Zipcode(req.Zipcode); err != nil {
		return LookupResponse{Available: false, Message: err.Error()}, nil
	}
	return LookupResponse{
		Available: false,
		Message:   "address lookup is not available",
	}, nil
}
