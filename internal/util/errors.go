package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error values for fleetdeck
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClusterNotFound indicates a kubeconfig context was not found
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrResourceNotFound indicates a Kubernetes resource was not found
	ErrResourceNotFound = errors.New("resource not found")

	// ErrAlreadyExists indicates a context or resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotRefreshed indicates the client facade has no handles yet
	ErrNotRefreshed = errors.New("client handles not built")
)

// NotFoundError reports an unknown context or an absent resource.
// Kind is "context" for kubeconfig contexts and the resource kind otherwise.
type NotFoundError struct {
	Kind      string
	Name      string
	Namespace string
}

func (e *NotFoundError) Error() string {
	if e.Namespace != "" {
		return fmt.Sprintf("%s %q not found in namespace %q", e.Kind, e.Name, e.Namespace)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Unwrap maps the error onto the matching sentinel so errors.Is keeps working
func (e *NotFoundError) Unwrap() error {
	if e.Kind == "context" {
		return ErrClusterNotFound
	}
	return ErrResourceNotFound
}

// NewContextNotFound returns a NotFoundError for a kubeconfig context
func NewContextNotFound(name string) *NotFoundError {
	return &NotFoundError{Kind: "context", Name: name}
}

// InUseError is returned when removing the active context
type InUseError struct {
	Context string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("context %q is the current context and cannot be removed", e.Context)
}

// UnsupportedKindError is returned by kind dispatch for anything outside the supported set
type UnsupportedKindError struct {
	Kind      string
	Operation string
}

func (e *UnsupportedKindError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("unsupported kind %q for %s", e.Kind, e.Operation)
	}
	return fmt.Sprintf("unsupported kind %q", e.Kind)
}

// RevisionNotFoundError is returned when a rollback target is absent or has no pod template
type RevisionNotFoundError struct {
	Workload  string
	Namespace string
	Revision  int64
	Reason    string
}

func (e *RevisionNotFoundError) Error() string {
	msg := fmt.Sprintf("revision %d of deployment %s/%s not found", e.Revision, e.Namespace, e.Workload)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// TransportError wraps a failed call to the remote API
type TransportError struct {
	Op      string
	Context string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (context %q): %v", e.Op, e.Context, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err, returning nil for a nil err
func NewTransportError(op, contextName string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Context: contextName, Err: err}
}

// BusyError is returned when a context-mutating sequence is already in progress
type BusyError struct {
	Operation string
	Holder    string
}

func (e *BusyError) Error() string {
	if e.Holder != "" {
		return fmt.Sprintf("%s rejected: %s in progress", e.Operation, e.Holder)
	}
	return fmt.Sprintf("%s rejected: session busy", e.Operation)
}

// ConflictError is returned when a conditional update lost a race with another writer.
// Callers may re-read and retry.
type ConflictError struct {
	Kind      string
	Name      string
	Namespace string
	Err       error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s/%s was modified concurrently: %v", e.Kind, e.Namespace, e.Name, e.Err)
}

// Unwrap returns the underlying cause
func (e *ConflictError) Unwrap() error {
	return e.Err
}

// PartialFailureError reports which sub-fetches of an aggregate failed
type PartialFailureError struct {
	Failed []string
	Err    *MultiError
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure (%s): %v", strings.Join(e.Failed, ", "), e.Err)
}

// Unwrap returns the individual sub-fetch errors
func (e *PartialFailureError) Unwrap() []error {
	if e.Err == nil {
		return nil
	}
	return e.Err.Errors
}

// ClusterError wraps an error with cluster context
type ClusterError struct {
	ClusterName string
	Err         error
}

// Error implements the error interface
func (e *ClusterError) Error() string {
	return fmt.Sprintf("cluster %q: %v", e.ClusterName, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *ClusterError) Unwrap() error {
	return e.Err
}

// WrapClusterError wraps an error with cluster context
func WrapClusterError(clusterName string, err error) error {
	if err == nil {
		return nil
	}
	return &ClusterError{
		ClusterName: clusterName,
		Err:         err,
	}
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 { // Limit to first 10 errors in the message
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors
// It filters out nil errors
func NewMultiError(errors []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errors)),
	}
	for _, err := range errors {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrClusterNotFound)
}

// IsBusy checks if an error is a BusyError
func IsBusy(err error) bool {
	var busy *BusyError
	return errors.As(err, &busy)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	var (
		inUse       *InUseError
		unsupported *UnsupportedKindError
		revision    *RevisionNotFoundError
		partial     *PartialFailureError
	)

	switch {
	case IsBusy(err):
		return "Another cluster switch or sweep is in progress. Please try again shortly."
	case errors.As(err, &inUse):
		return fmt.Sprintf("Context %q is active. Switch to another context before removing it.", inUse.Context)
	case errors.As(err, &unsupported):
		return fmt.Sprintf("Kind %q is not supported here. Supported kinds: pod, deployment, service, configmap, secret.", unsupported.Kind)
	case errors.As(err, &revision):
		return fmt.Sprintf("Revision %d was not found for deployment %q. Use 'rollout history' to list revisions.", revision.Revision, revision.Workload)
	case IsConflict(err):
		return "The resource was changed by someone else. Re-run the command to retry against the latest version."
	case errors.As(err, &partial):
		return fmt.Sprintf("Could not gather a complete view; failed: %s.", strings.Join(partial.Failed, ", "))
	case IsNotFound(err):
		return err.Error()
	case IsTransport(err):
		return "Failed to reach the cluster. Please check your kubeconfig and network connectivity: " + err.Error()
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	case errors.Is(err, ErrAlreadyExists):
		return "Context already exists. Use a different name or remove the existing context first."
	default:
		// Return the original error message for unknown errors
		return err.Error()
	}
}
