package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CapturesCodeMessageAndStack(t *testing.T) {
	err := New(ErrCodeParseFailed, "unexpected token")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeParseFailed, err.Code)
	assert.Equal(t, "unexpected token", err.Message)
	assert.NotEmpty(t, err.Stack)
}

func TestError_FormatWithAndWithoutDetail(t *testing.T) {
	err := New(ErrCodeQuerySyntax, "unbalanced parentheses")
	assert.Equal(t, "[QUERY_007] unbalanced parentheses", err.Error())

	withDetail := err.WithDetail(`condition="ti:(laser"`)
	assert.Equal(t, `[QUERY_007] unbalanced parentheses: condition="ti:(laser"`, withDetail.Error())
	// WithDetail clones; original untouched.
	assert.Empty(t, err.Detail)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "should be dropped"))
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeRemoteUnavailable, "generate call failed")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeRemoteUnavailable, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_UnknownCodeInheritsWrappedCode(t *testing.T) {
	inner := New(ErrCodeConvertFailed, "no generator for dialect")
	outer := Wrap(inner, CodeUnknown, "convert pipeline")
	assert.Equal(t, ErrCodeConvertFailed, outer.Code)
}

func TestIsCode_WalksChain(t *testing.T) {
	inner := New(ErrCodeParseFailed, "bad token")
	mid := Wrap(inner, ErrCodeConvertFailed, "conversion aborted")
	outer := fmt.Errorf("handler: %w", mid)

	assert.True(t, IsCode(outer, ErrCodeParseFailed))
	assert.True(t, IsCode(outer, ErrCodeConvertFailed))
	assert.False(t, IsCode(outer, ErrCodeCacheError))
	assert.False(t, IsCode(nil, ErrCodeParseFailed))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(Validation("trailing operator")))
	assert.True(t, IsValidation(New(ErrCodeQueryInvalidDate, "bad date")))
	assert.False(t, IsValidation(New(ErrCodeRemoteTimeout, "slow")))
	assert.False(t, IsValidation(stderrors.New("plain")))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote(Remote("upstream said no")))
	assert.True(t, IsRemote(Wrap(New(ErrCodeRemoteTimeout, "deadline"), CodeUnknown, "ctx")))
	assert.False(t, IsRemote(Validation("local issue")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("opaque")))
	assert.Equal(t, ErrCodeTimeout, GetCode(Timeout("10s elapsed")))
	assert.Equal(t, ErrCodeBadRequest, GetCode(fmt.Errorf("wrapped: %w", InvalidParam("dialect"))))
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("EOF")
	err := New(ErrCodeRemoteBadResponse, "truncated body").WithCause(cause)
	assert.ErrorIs(t, err, cause)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithCause(cause))
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestConvenienceFactories(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NotFound("gone").Code)
	assert.Equal(t, ErrCodeBadRequest, InvalidParam("bad").Code)
	assert.Equal(t, ErrCodeValidation, Validation("syntax").Code)
	assert.Equal(t, ErrCodeInternal, Internal("boom").Code)
	assert.Equal(t, ErrCodeTimeout, Timeout("slow").Code)
	assert.Equal(t, ErrCodeRemoteAPIError, Remote("api").Code)
}

//Personal.AI order the ending
