package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// AccountResponse describes a resolved smart account.
type AccountResponse struct {
	// Required: true
	Address *string `json:"address"`

	// False when the supplied address differs from the counterfactual one.
	// Required: true
	CanCreateAccount *bool `json:"canCreateAccount"`

	// Required: true
	Deployed *bool `json:"deployed"`

	// Set while the account still has to be deployed.
	Factory string `json:"factory,omitempty"`

	FactoryData string `json:"factoryData,omitempty"`
}

func (m *AccountResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("canCreateAccount", "body", m.CanCreateAccount); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("deployed", "body", m.Deployed); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

type NonceResponse struct {
	// Decimal.
	// Required: true
	Nonce *string `json:"nonce"`
}

func (m *NonceResponse) Validate(_ strfmt.Registry) error {
	if err := validate.Required("nonce", "body", m.Nonce); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

type SignatureResponse struct {
	// Required: true
	Signature *string `json:"signature"`
}

func (m *SignatureResponse) Validate(_ strfmt.Registry) error {
	if err := validate.Required("signature", "body", m.Signature); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

type EncodeCallsResponse struct {
	// Required: true
	CallData *string `json:"callData"`
}

func (m *EncodeCallsResponse) Validate(_ strfmt.Registry) error {
	if err := validate.Required("callData", "body", m.CallData); err != nil {
		return errors.CompositeValidationError(err)
	}

	return nil
}

type UserOperationHashResponse struct {
	// Required: true
	Hash *string `json:"hash"`

	// Required: true
	Sender *string `json:"sender"`
}

func (m *UserOperationHashResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("hash", "body", m.Hash); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("sender", "body", m.Sender); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}
