package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDomainError_IsMatchesSentinelByTypeAndCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"duplicate", NewDuplicateNodeIDError("x"), ErrDuplicateNodeID, true},
		{"cyclic", NewCyclicMoveError("a", "b"), ErrCyclicMove, true},
		{"not found", NewNodeNotFoundError("x"), ErrNodeNotFound, true},
		{"parent not found", NewParentNotFoundError("x"), ErrParentNotFound, true},
		{"version", NewNodeIDVersionError("x", 4), ErrNodeIDVersion, true},
		{"different code same type", NewNodeNotFoundError("x"), ErrParentNotFound, false},
		{"wrapped", fmt.Errorf("moving: %w", NewCyclicMoveError("a", "b")), ErrCyclicMove, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestDomainError_ConstructorsDoNotMutateSentinels(t *testing.T) {
	_ = NewDuplicateNodeIDError("0192f0c1-2345-7123-8abc-def012345678")

	assert.Empty(t, ErrDuplicateNodeID.Details)
}

func TestDomainError_ErrorIncludesDetailsInStableOrder(t *testing.T) {
	err := NewCyclicMoveError("a", "b")

	assert.Equal(t,
		"[INTEGRITY_ERROR:CYCLIC_MOVE] Cannot move an item beneath itself or one of its descendants (node_id=a, parent_id=b)",
		err.Error(),
	)
}

func TestTaxonomyHelpers(t *testing.T) {
	assert.True(t, IsIdentity(NewEmptyNodeIDError()))
	assert.True(t, IsIdentity(NewInvalidNodeIDError("nope", errors.New("bad"))))
	assert.True(t, IsIntegrity(NewDuplicateNodeIDError("x")))
	assert.True(t, IsReference(NewNodeNotFoundError("x")))
	assert.False(t, IsReference(NewDuplicateNodeIDError("x")))
	assert.False(t, IsIntegrity(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("domain error keeps identity", func(t *testing.T) {
		err := Wrap(NewNodeNotFoundError("x"), "removing item")
		assert.True(t, errors.Is(err, ErrNodeNotFound))
		assert.Contains(t, err.Error(), "removing item")
	})

	t.Run("app error gets prefixed", func(t *testing.T) {
		err := Wrap(NewNotFoundError("binder"), "loading")
		require.True(t, IsNotFound(err))
		assert.Equal(t, "loading: binder not found", GetAppError(err).Message)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrapf(cause, "step %d", 3)
		assert.True(t, IsType(err, ErrorTypeInternal))
		assert.ErrorIs(t, err, cause)
	})
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	assert.False(t, v.HasErrors())
	assert.Equal(t, "", v.Error())

	v.Add("title", "title is required")
	v.AddError(NewDomainError(DomainValidationError, "OTHER", "something else"))

	assert.True(t, v.HasErrors())
	assert.Equal(t, "Validation failed: title is required; something else", v.Error())
	assert.Equal(t, map[string][]string{
		"title":   {"title is required"},
		"general": {"something else"},
	}, v.ToMap())
}

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := NewErrorHandler(zap.New(core), false)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, ExitOK},
		{"integrity", NewDuplicateNodeIDError("x"), ExitIntegrity},
		{"reference", NewNodeNotFoundError("x"), ExitIntegrity},
		{"validation", NewValidationError("bad"), ExitInvalid},
		{"not found", NewNotFoundError("binder"), ExitNotFound},
		{"filesystem", NewFilesystemError("read", "/tmp/x", errors.New("denied")), ExitInternal},
		{"plain", errors.New("boom"), ExitInternal},
		{"aggregated validation", fieldErrors("title", "title is required"), ExitInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, h.Handle(tt.err))
		})
	}

	assert.Equal(t, 7, logs.Len())
}

func fieldErrors(field, message string) *ValidationErrors {
	errs := NewValidationErrors()
	errs.Add(field, message)
	return errs
}
