package types

import (
	"strconv"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

const (
	AccountTypeWebAuthn = "webauthn"
	AccountTypeEcdsa    = "ecdsa"

	addressPattern = `^0x[0-9a-fA-F]{40}$`
	bytesPattern   = `^0x([0-9a-fA-F]{2})*$`
	// Decimal or 0x prefixed hex unsigned integer.
	quantityPattern = `^(0x[0-9a-fA-F]{1,64}|[0-9]{1,78})$`
)

// P256PublicKey is the uncompressed passkey public key.
type P256PublicKey struct {
	// Required: true
	// Pattern: quantity
	X *string `json:"x"`

	// Required: true
	// Pattern: quantity
	Y *string `json:"y"`
}

func (m *P256PublicKey) Validate(_ strfmt.Registry) error {
	var res []error

	for name, v := range map[string]*string{"x": m.X, "y": m.Y} {
		if err := validate.Required(name, "body", v); err != nil {
			res = append(res, err)
			continue
		}

		if err := validate.Pattern(name, "body", *v, quantityPattern); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// AccountDescriptor identifies a smart account by its signer.
type AccountDescriptor struct {
	// Required: true
	// Enum: [webauthn ecdsa]
	Type *string `json:"type"`

	// Credential id of the passkey, required for webauthn accounts.
	AuthenticatorID string `json:"authenticatorId,omitempty"`

	// Required for webauthn accounts.
	PubKey *P256PublicKey `json:"pubKey,omitempty"`

	// Owner of an ecdsa account.
	// Pattern: address
	Owner string `json:"owner,omitempty"`

	// Minimum: 0
	Index int64 `json:"index,omitempty"`

	// Address the caller believes the account has.
	// Pattern: address
	Address string `json:"address,omitempty"`
}

var accountDescriptorTypeEnum = []interface{}{AccountTypeWebAuthn, AccountTypeEcdsa}

func (m *AccountDescriptor) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("type", "body", m.Type); err != nil {
		return errors.CompositeValidationError(err)
	}

	if err := validate.EnumCase("type", "body", *m.Type, accountDescriptorTypeEnum, true); err != nil {
		return errors.CompositeValidationError(err)
	}

	switch *m.Type {
	case AccountTypeWebAuthn:
		if err := validate.RequiredString("authenticatorId", "body", m.AuthenticatorID); err != nil {
			res = append(res, err)
		}

		if err := validate.Required("pubKey", "body", m.PubKey); err != nil {
			res = append(res, err)
		} else if err := m.PubKey.Validate(formats); err != nil {
			res = append(res, nestedValidation("pubKey", err))
		}
	case AccountTypeEcdsa:
		if err := validate.RequiredString("owner", "body", m.Owner); err != nil {
			res = append(res, err)
		}
	}

	if !swag.IsZero(m.Owner) {
		if err := validate.Pattern("owner", "body", m.Owner, addressPattern); err != nil {
			res = append(res, err)
		}
	}

	if err := validate.MinimumInt("index", "body", m.Index, 0, false); err != nil {
		res = append(res, err)
	}

	if !swag.IsZero(m.Address) {
		if err := validate.Pattern("address", "body", m.Address, addressPattern); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// PostAccountPayload is the body of every endpoint that only needs the account.
type PostAccountPayload struct {
	// Required: true
	Account *AccountDescriptor `json:"account"`
}

func (m *PostAccountPayload) Validate(formats strfmt.Registry) error {
	if err := validate.Required("account", "body", m.Account); err != nil {
		return errors.CompositeValidationError(err)
	}

	if err := m.Account.Validate(formats); err != nil {
		return nestedValidation("account", err)
	}

	return nil
}

// CallPayload is one call performed by the account.
type CallPayload struct {
	// Required: true
	// Pattern: address
	To *string `json:"to"`

	// Wei, decimal or hex.
	// Pattern: quantity
	Value string `json:"value,omitempty"`

	// Pattern: bytes
	Data string `json:"data,omitempty"`
}

func (m *CallPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("to", "body", m.To); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("to", "body", *m.To, addressPattern); err != nil {
		res = append(res, err)
	}

	if !swag.IsZero(m.Value) {
		if err := validate.Pattern("value", "body", m.Value, quantityPattern); err != nil {
			res = append(res, err)
		}
	}

	if !swag.IsZero(m.Data) {
		if err := validate.Pattern("data", "body", m.Data, bytesPattern); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

type PostEncodeCallsPayload struct {
	// Required: true
	Account *AccountDescriptor `json:"account"`

	// Required: true
	// Min Items: 1
	Calls []*CallPayload `json:"calls"`
}

func (m *PostEncodeCallsPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("account", "body", m.Account); err != nil {
		res = append(res, err)
	} else if err := m.Account.Validate(formats); err != nil {
		res = append(res, nestedValidation("account", err))
	}

	if err := validate.Required("calls", "body", m.Calls); err != nil {
		res = append(res, err)
	} else if err := validate.MinItems("calls", "body", int64(len(m.Calls)), 1); err != nil {
		res = append(res, err)
	}

	for i, call := range m.Calls {
		name := "calls." + strconv.Itoa(i)
		if err := validate.Required(name, "body", call); err != nil {
			res = append(res, err)
			continue
		}

		if err := call.Validate(formats); err != nil {
			res = append(res, nestedValidation(name, err))
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// UserOperationPayload is an ERC-4337 v0.6 user operation. Quantities are
// decimal or hex, byte fields are 0x prefixed hex.
type UserOperationPayload struct {
	// Defaults to the account address.
	// Pattern: address
	Sender string `json:"sender,omitempty"`

	// Required: true
	// Pattern: quantity
	Nonce *string `json:"nonce"`

	// Pattern: bytes
	InitCode string `json:"initCode,omitempty"`

	// Required: true
	// Pattern: bytes
	CallData *string `json:"callData"`

	// Pattern: quantity
	CallGasLimit string `json:"callGasLimit,omitempty"`

	// Pattern: quantity
	VerificationGasLimit string `json:"verificationGasLimit,omitempty"`

	// Pattern: quantity
	PreVerificationGas string `json:"preVerificationGas,omitempty"`

	// Pattern: quantity
	MaxFeePerGas string `json:"maxFeePerGas,omitempty"`

	// Pattern: quantity
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas,omitempty"`

	// Pattern: bytes
	PaymasterAndData string `json:"paymasterAndData,omitempty"`
}

func (m *UserOperationPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("nonce", "body", m.Nonce); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("nonce", "body", *m.Nonce, quantityPattern); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("callData", "body", m.CallData); err != nil {
		res = append(res, err)
	} else if err := validate.Pattern("callData", "body", *m.CallData, bytesPattern); err != nil {
		res = append(res, err)
	}

	if !swag.IsZero(m.Sender) {
		if err := validate.Pattern("sender", "body", m.Sender, addressPattern); err != nil {
			res = append(res, err)
		}
	}

	for name, v := range map[string]string{
		"callGasLimit":         m.CallGasLimit,
		"verificationGasLimit": m.VerificationGasLimit,
		"preVerificationGas":   m.PreVerificationGas,
		"maxFeePerGas":         m.MaxFeePerGas,
		"maxPriorityFeePerGas": m.MaxPriorityFeePerGas,
	} {
		if swag.IsZero(v) {
			continue
		}
		if err := validate.Pattern(name, "body", v, quantityPattern); err != nil {
			res = append(res, err)
		}
	}

	for name, v := range map[string]string{
		"initCode":         m.InitCode,
		"paymasterAndData": m.PaymasterAndData,
	} {
		if swag.IsZero(v) {
			continue
		}
		if err := validate.Pattern(name, "body", v, bytesPattern); err != nil {
			res = append(res, err)
		}
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

type PostUserOperationHashPayload struct {
	// Required: true
	Account *AccountDescriptor `json:"account"`

	// Required: true
	UserOperation *UserOperationPayload `json:"userOperation"`
}

func (m *PostUserOperationHashPayload) Validate(formats strfmt.Registry) error {
	var res []error

	if err := validate.Required("account", "body", m.Account); err != nil {
		res = append(res, err)
	} else if err := m.Account.Validate(formats); err != nil {
		res = append(res, nestedValidation("account", err))
	}

	if err := validate.Required("userOperation", "body", m.UserOperation); err != nil {
		res = append(res, err)
	} else if err := m.UserOperation.Validate(formats); err != nil {
		res = append(res, nestedValidation("userOperation", err))
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

func nestedValidation(name string, err error) error {
	switch e := err.(type) { //nolint:errorlint // go-openapi validation errors are never wrapped
	case *errors.Validation:
		return e.ValidateName(name)
	case *errors.CompositeError:
		return e.ValidateName(name)
	default:
		return err
	}
}
