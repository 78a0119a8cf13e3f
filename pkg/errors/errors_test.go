package errors_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/stackmap/stackmap/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Kind: "component", Ref: "payments-api"}
		assert.Equal(t, `component "payments-api" not found`, err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("scorecard", "prod-readiness")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("metric", "error-rate")
		wrapped := errors.Join(errors.New("resolve failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("single violation", func(t *testing.T) {
		err := pkgerrors.NewValidationError("name", "", "is required")
		assert.Equal(t, "validation failed: name: is required", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("collects all violations", func(t *testing.T) {
		var v pkgerrors.ValidationError
		v.Add("name", "", "is required")
		v.Add("type", "widget", "must be one of service, library, website, pipeline, datastore")

		err := v.ErrOrNil()
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidation(err))

		ve, ok := pkgerrors.AsValidation(err)
		require.True(t, ok)
		assert.Len(t, ve.Violations, 2)
		assert.Contains(t, err.Error(), "name: is required")
		assert.Contains(t, err.Error(), "type:")
	})

	t.Run("no violations means nil", func(t *testing.T) {
		var v pkgerrors.ValidationError
		assert.NoError(t, v.ErrOrNil())
	})
}

func TestConflictError(t *testing.T) {
	t.Run("name collision carries existing ID", func(t *testing.T) {
		err := pkgerrors.NewConflictError("component", "payments-api", "comp-123")
		assert.Contains(t, err.Error(), "payments-api")
		assert.Contains(t, err.Error(), "comp-123")
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("blocked delete lists dependents", func(t *testing.T) {
		deps := []pkgerrors.Dependent{
			{Kind: "component", ID: "comp-9", Name: "checkout"},
			{Kind: "component", ID: "comp-12", Name: "billing"},
		}
		err := pkgerrors.NewDependentsError("component", "payments-api", deps)
		assert.Contains(t, err.Error(), "2 dependent(s)")
		assert.Contains(t, err.Error(), "comp-9")
		assert.Contains(t, err.Error(), "checkout")
		assert.True(t, errors.Is(err, pkgerrors.ErrConflict))

		ce, ok := pkgerrors.AsConflict(err)
		require.True(t, ok)
		assert.Len(t, ce.Dependents, 2)
	})
}

func TestRemoteError(t *testing.T) {
	t.Run("unavailable", func(t *testing.T) {
		err := pkgerrors.NewRemoteUnavailableError("ListComponents", "connection refused", errors.New("dial tcp"))
		assert.True(t, pkgerrors.IsRemoteUnavailable(err))
		assert.False(t, pkgerrors.IsRemoteRejected(err))
		assert.Contains(t, err.Error(), "ListComponents")
	})

	t.Run("rejected with code", func(t *testing.T) {
		err := pkgerrors.NewRemoteRejectedError("DeleteComponent", "CONFLICT", "component is in use")
		assert.True(t, pkgerrors.IsRemoteRejected(err))
		assert.False(t, pkgerrors.IsRemoteUnavailable(err))
		assert.Contains(t, err.Error(), "[CONFLICT]")
	})

	t.Run("unwrap", func(t *testing.T) {
		inner := errors.New("tls handshake failure")
		err := pkgerrors.NewRemoteUnavailableError("CreateMetric", "tls", inner)
		assert.True(t, errors.Is(err, inner))
	})
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("UpdateScorecard", 10*time.Second)
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Contains(t, err.Error(), "10s")
}

func TestErrorKindsAreDistinct(t *testing.T) {
	notFound := pkgerrors.NewNotFoundError("metric", "latency")
	conflict := pkgerrors.NewConflictError("metric", "latency", "m-1")
	rejected := pkgerrors.NewRemoteRejectedError("CreateMetric", "", "bad reference")

	assert.False(t, pkgerrors.IsConflict(notFound))
	assert.False(t, pkgerrors.IsNotFound(conflict))
	assert.False(t, pkgerrors.IsRemoteUnavailable(rejected))
	assert.False(t, pkgerrors.IsTimeout(rejected))
}
