package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// PublicHTTPErrorType is the machine readable kind of a PublicHTTPError.
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric                PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeACCOUNTADDRESSNOTFOUND PublicHTTPErrorType = "ACCOUNT_ADDRESS_NOT_FOUND"
	PublicHTTPErrorTypeCHAINUNAVAILABLE       PublicHTTPErrorType = "CHAIN_UNAVAILABLE"
	PublicHTTPErrorTypeINVALIDACCOUNTTYPE     PublicHTTPErrorType = "INVALID_ACCOUNT_TYPE"
	PublicHTTPErrorTypeSIGNATUREBLOBTOOLARGE  PublicHTTPErrorType = "SIGNATURE_BLOB_TOO_LARGE"
	PublicHTTPErrorTypeNOCALLS                PublicHTTPErrorType = "NO_CALLS"
)

func (m PublicHTTPErrorType) Pointer() *PublicHTTPErrorType {
	return &m
}

// PublicHTTPError is the body of every non 2xx response.
type PublicHTTPError struct {
	// More detailed, human-readable, optional explanation of the error
	Detail string `json:"detail,omitempty"`

	// HTTP status code returned for the error
	// Required: true
	Status *int64 `json:"status"`

	// Short, human-readable description of the error
	// Required: true
	Title *string `json:"title"`

	// Required: true
	Type *PublicHTTPErrorType `json:"type"`
}

func (m *PublicHTTPError) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("status", "body", m.Status); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("title", "body", m.Title); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("type", "body", m.Type); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// HTTPValidationErrorDetail points at one invalid field.
type HTTPValidationErrorDetail struct {
	// Required: true
	Error *string `json:"error"`

	// Where the error occurred, "body", "query" or "path"
	// Required: true
	In *string `json:"in"`

	// Required: true
	Key *string `json:"key"`
}

// PublicHTTPValidationError is a PublicHTTPError listing the invalid fields.
type PublicHTTPValidationError struct {
	PublicHTTPError

	// Required: true
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors"`
}

func (m *PublicHTTPValidationError) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.PublicHTTPError.Validate(formats); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("validationErrors", "body", m.ValidationErrors); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}
