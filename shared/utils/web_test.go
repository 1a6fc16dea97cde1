package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	internal_errors "github.com/MoniqueMiko/watch-auth-microservice/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	type TestStruct struct {
		Field1 string `json:"field1"`
		Field2 int    `json:"field2"`
	}

	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
	}{
		{name: "Valid JSON", requestBody: `{"field1": "value", "field2": 123}`},
		{name: "Missing fields are zero", requestBody: `{}`},
		{name: "Invalid JSON", requestBody: `{"field1": "value", "field2": 123`, wantErr: true},
		{name: "Wrong type", requestBody: `{"field1": 5}`, wantErr: true},
		{name: "Trailing data", requestBody: `{"field1": "a"} {"field1": "b"}`, wantErr: true},
		{name: "Empty Body", requestBody: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target TestStruct
			err := Decode([]byte(tt.requestBody), &target)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			e, ok := err.(*internal_errors.ErrorWithStatusCode)
			require.True(t, ok, "Error should be ErrorWithStatusCode")
			assert.Equal(t, InvalidJsonMessage, e.Message)
			assert.Equal(t, http.StatusBadRequest, e.StatusCode)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		input    interface{}
		expected string
		code     int
	}{
		{
			name:     "Valid JSON",
			status:   http.StatusCreated,
			input:    map[string]string{"message": "hello"},
			expected: `{"message":"hello"}` + "\n",
			code:     http.StatusCreated,
		},
		{
			name:     "Invalid JSON (channel)",
			status:   http.StatusOK,
			input:    make(chan int),
			expected: "Internal error\n",
			code:     http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			WriteJSON(rr, tt.status, tt.input)

			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, tt.expected, rr.Body.String())
		})
	}
}

func TestWriteErrorAndStatusCode(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrorAndStatusCode(rr, &internal_errors.ErrorWithStatusCode{Message: "nope", StatusCode: http.StatusNotFound})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	WriteErrorAndStatusCode(rr, errors.New("db down"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}
