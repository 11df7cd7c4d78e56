package provisioning

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	notFound := &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "ResourceNotFound"}
	require.True(t, isNotFound(notFound))
	require.True(t, isNotFound(fmt.Errorf("get server: %w", notFound)))

	forbidden := &azcore.ResponseError{StatusCode: http.StatusForbidden}
	require.False(t, isNotFound(forbidden))
	require.False(t, isNotFound(errors.New("plain error")))
	require.False(t, isNotFound(nil))
}

func TestDeref(t *testing.T) {
	s := "value"
	require.Equal(t, "value", deref(&s))
	require.Equal(t, "", deref(nil))
}
