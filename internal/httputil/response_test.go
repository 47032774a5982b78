package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paygate/credentials/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "not found",
			err:            apperrors.Wrap(apperrors.ErrNotFound, "credential lookup"),
			expectedStatus: http.StatusNotFound,
			expectedError:  "not_found",
		},
		{
			name:           "conflict",
			err:            apperrors.Wrap(apperrors.ErrConflict, "cannot rotate a revoked credential"),
			expectedStatus: http.StatusConflict,
			expectedError:  "conflict",
		},
		{
			name:           "invalid input",
			err:            apperrors.Wrap(apperrors.ErrInvalidInput, "missing nonce header"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "invalid_input",
		},
		{
			name:           "unauthorized",
			err:            apperrors.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "unauthorized",
		},
		{
			name:           "forbidden",
			err:            apperrors.ErrForbidden,
			expectedStatus: http.StatusForbidden,
			expectedError:  "forbidden",
		},
		{
			name:           "upstream failure",
			err:            apperrors.Wrap(apperrors.ErrUpstream, "vault timeout"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "upstream_failure",
		},
		{
			name:           "unknown error is not exposed",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, recorder.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
			assert.Equal(t, tt.expectedError, response.Error)
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)

		HandleErrorGin(c, nil, nil)

		assert.Empty(t, recorder.Body.String())
	})
}

func TestParsePagination(t *testing.T) {
	makeContext := func(query string) *gin.Context {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return c
	}

	t.Run("defaults", func(t *testing.T) {
		offset, limit, err := ParsePagination(makeContext(""))
		assert.NoError(t, err)
		assert.Equal(t, 0, offset)
		assert.Equal(t, 50, limit)
	})

	t.Run("custom values", func(t *testing.T) {
		offset, limit, err := ParsePagination(makeContext("offset=10&limit=25"))
		assert.NoError(t, err)
		assert.Equal(t, 10, offset)
		assert.Equal(t, 25, limit)
	})

	t.Run("negative offset rejected", func(t *testing.T) {
		_, _, err := ParsePagination(makeContext("offset=-1"))
		assert.Error(t, err)
	})

	t.Run("limit above max rejected", func(t *testing.T) {
		_, _, err := ParsePagination(makeContext("limit=101"))
		assert.Error(t, err)
	})
}
