package transport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	t.Run("Success envelope", func(t *testing.T) {
		w := httptest.NewRecorder()

		JSON(w, http.StatusOK, "Order retrieved successfully", map[string]string{"id": "123"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Order retrieved successfully", resp.Message)
		assert.Equal(t, map[string]any{"id": "123"}, resp.Data)

		_, err := time.Parse(time.RFC3339, resp.Timestamp)
		assert.NoError(t, err, "timestamp must be RFC3339")
	})

	t.Run("4xx flips success off", func(t *testing.T) {
		w := httptest.NewRecorder()

		JSON(w, http.StatusBadRequest, "Invalid request body", nil)

		var resp Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusNotFound, "Order not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Order not found", resp.Message)
	assert.Nil(t, resp.Data)
}
