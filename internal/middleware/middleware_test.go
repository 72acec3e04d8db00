package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func TestNewResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	if rw == nil {
		t.Fatal("Expected responseWriter to be created")
	}

	if rw.statusCode != http.StatusOK {
		t.Errorf("Expected default status code 200, got %d", rw.statusCode)
	}

	if rw.bytesWritten != 0 {
		t.Errorf("Expected bytesWritten to be 0, got %d", rw.bytesWritten)
	}

	if rw.wroteHeader {
		t.Error("Expected wroteHeader to be false initially")
	}
}

func TestResponseWriterWriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	rw.WriteHeader(http.StatusNotFound)

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Expected status code 404, got %d", rw.statusCode)
	}

	if !rw.wroteHeader {
		t.Error("Expected wroteHeader to be true after WriteHeader")
	}

	// Write header again - should be ignored
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.statusCode != http.StatusNotFound {
		t.Error("Status code should not change after first WriteHeader")
	}
}

func TestResponseWriterWrite(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	data := []byte("test data")
	n, err := rw.Write(data)

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if n != len(data) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
	}

	if rw.bytesWritten != int64(len(data)) {
		t.Errorf("Expected bytesWritten to be %d, got %d", len(data), rw.bytesWritten)
	}

	if !rw.wroteHeader {
		t.Error("Expected wroteHeader to be true after Write")
	}
}

func TestDefaultLoggingConfig(t *testing.T) {
	// Save and restore original environment
	originalEnv := os.Getenv("LOG_HEALTH_CHECKS")
	defer func() {
		if originalEnv != "" {
			os.Setenv("LOG_HEALTH_CHECKS", originalEnv)
		} else {
			os.Unsetenv("LOG_HEALTH_CHECKS")
		}
	}()

	os.Unsetenv("LOG_HEALTH_CHECKS")
	config := DefaultLoggingConfig()

	if len(config.SkipPaths) != 0 {
		t.Errorf("Expected empty SkipPaths, got %d items", len(config.SkipPaths))
	}

	if config.LogHealthChecks {
		t.Error("Expected LogHealthChecks to be false by default")
	}
}

func TestDefaultLoggingConfigEnvOverride(t *testing.T) {
	originalEnv := os.Getenv("LOG_HEALTH_CHECKS")
	defer func() {
		if originalEnv != "" {
			os.Setenv("LOG_HEALTH_CHECKS", originalEnv)
		} else {
			os.Unsetenv("LOG_HEALTH_CHECKS")
		}
	}()

	tests := []struct {
		name     string
		envValue string
		want     bool
	}{
		{"true enables", "true", true},
		{"1 enables", "1", true},
		{"false stays off", "false", false},
		{"garbage stays off", "sometimes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("LOG_HEALTH_CHECKS", tt.envValue)

			if got := DefaultLoggingConfig().LogHealthChecks; got != tt.want {
				t.Errorf("LogHealthChecks with LOG_HEALTH_CHECKS=%s = %v, want %v", tt.envValue, got, tt.want)
			}
		})
	}
}

func TestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config LoggingConfig
	}{
		{
			name:   "Logs regular requests",
			path:   "/api/stats",
			config: DefaultLoggingConfig(),
		},
		{
			name:   "Logs health checks when enabled",
			path:   "/health",
			config: LoggingConfig{LogHealthChecks: true},
		},
		{
			name:   "Skips health checks when disabled",
			path:   "/health",
			config: LoggingConfig{LogHealthChecks: false},
		},
		{
			name:   "Skips configured paths",
			path:   "/metrics",
			config: LoggingConfig{SkipPaths: []string{"/metrics"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})

			middleware := Logger(tt.config)
			wrappedHandler := middleware(handler)

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
			if w.Body.String() != "ok" {
				t.Errorf("Expected body %q, got %q", "ok", w.Body.String())
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	os.Unsetenv("LOG_HEALTH_CHECKS")
	defer os.Unsetenv("LOG_HEALTH_CHECKS")

	tests := []struct {
		name   string
		path   string
		config LoggingConfig
		want   bool
	}{
		{"regular path", "/api/stats", DefaultLoggingConfig(), false},
		{"health check default", "/healthz", DefaultLoggingConfig(), true},
		{"health check enabled", "/healthz", LoggingConfig{LogHealthChecks: true}, false},
		{"readyz default", "/readyz", DefaultLoggingConfig(), true},
		{"configured skip prefix", "/debug/pprof", LoggingConfig{SkipPaths: []string{"/debug"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSkip(tt.path, tt.config); got != tt.want {
				t.Errorf("shouldSkip(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain string", "GET", "GET"},
		{"newline replaced", "a\nb", "a b"},
		{"carriage return replaced", "a\rb", "a b"},
		{"null byte stripped", "a\x00b", "ab"},
		{"ansi escape stripped", "a\x1b[31mb", "a[31mb"},
		{"control characters stripped", "a\x01\x02b", "ab"},
		{"tab preserved", "a\tb", "a\tb"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogField(tt.input); got != tt.want {
				t.Errorf("sanitizeLogField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "Remote address only",
			remoteAddr: "192.168.1.10:54321",
			want:       "192.168.1.10",
		},
		{
			name:       "X-Forwarded-For single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			want:       "203.0.113.5",
		},
		{
			name:       "X-Forwarded-For chain uses first",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.2"},
			want:       "203.0.113.5",
		},
		{
			name:       "X-Real-IP fallback",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			want:       "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeW3CField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no special chars", "curl/8.0", "curl/8.0"},
		{"with space", "Mozilla Firefox", `"Mozilla Firefox"`},
		{"with quote", `agent"x`, `"agent""x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeW3CField(tt.input); got != tt.want {
				t.Errorf("escapeW3CField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultMetricsConfig(t *testing.T) {
	config := DefaultMetricsConfig()

	expected := []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"}
	for _, path := range expected {
		found := false
		for _, skip := range config.SkipPaths {
			if skip == path {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected path %s in SkipPaths", path)
		}
	}
}

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		status     int
		config     MetricsConfig
		wantStatus int
	}{
		{
			name:       "Records regular requests",
			path:       "/api/stats",
			status:     http.StatusOK,
			config:     DefaultMetricsConfig(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "Passes through skipped paths",
			path:       "/metrics",
			status:     http.StatusOK,
			config:     DefaultMetricsConfig(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "Preserves error status",
			path:       "/api/stats",
			status:     http.StatusServiceUnavailable,
			config:     DefaultMetricsConfig(),
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			middleware := Metrics(tt.config)
			wrappedHandler := middleware(handler)

			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
