package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAPIKey(t *testing.T) {
	tests := []struct {
		name           string
		configuredKey  string
		authorization  string
		expectedStatus int
	}{
		{
			name:           "Valid Bearer Token",
			configuredKey:  "secret-key",
			authorization:  "Bearer secret-key",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wrong Token",
			configuredKey:  "secret-key",
			authorization:  "Bearer wrong",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Header",
			configuredKey:  "secret-key",
			authorization:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Scheme",
			configuredKey:  "secret-key",
			authorization:  "Basic secret-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Auth Disabled With Empty Key",
			configuredKey:  "",
			authorization:  "",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := APIKey(tt.configuredKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}
