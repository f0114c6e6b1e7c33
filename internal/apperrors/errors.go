// Package apperrors holds the error types shared by the services and the
// HTTP layer. Handlers translate them into status codes.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrForbidden           = errors.New("not authorized to access this resource")
	ErrDispatchInProgress  = errors.New("campaign is already being sent")
	ErrDuplicateSubscriber = errors.New("subscriber with this email already exists")
	ErrUserExists          = errors.New("user already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
)

// ConfigurationError reports missing or rejected provider settings.
type ConfigurationError struct {
	Setting string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error (%s): %v", e.Setting, e.Err)
	}
	return fmt.Sprintf("configuration error: %s is not set", e.Setting)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NewConfigurationError builds a ConfigurationError for setting.
func NewConfigurationError(setting string, err error) error {
	return &ConfigurationError{Setting: setting, Err: err}
}

// NotFoundError is returned when an id does not resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// DeliveryError is a single recipient's transport failure.
type DeliveryError struct {
	Recipient       string
	ProviderMessage string
	Err             error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %s", e.Recipient, e.ProviderMessage)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// NewDeliveryError wraps a transport error for recipient.
func NewDeliveryError(recipient string, err error) error {
	return &DeliveryError{Recipient: recipient, ProviderMessage: err.Error(), Err: err}
}

// ValidationError carries user-facing messages.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidation returns a ValidationError with the given messages.
func NewValidation(messages ...string) error {
	return &ValidationError{Messages: messages}
}

// TrackingInputError marks a malformed tracking beacon.
type TrackingInputError struct {
	Reason string
}

func (e *TrackingInputError) Error() string {
	return "invalid tracking parameters: " + e.Reason
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
