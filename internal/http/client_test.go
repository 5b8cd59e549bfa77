package http_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubworks-io/hubrun/internal/auth"
	apihttp "github.com/hubworks-io/hubrun/internal/http"
	"github.com/hubworks-io/hubrun/pkg/hubrun"
)

// MockLogger captures transport diagnostics for assertions.
type MockLogger struct {
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*apihttp.Client, context.Context) (*hubrun.Result, error)
	}{
		{
			name:   "HEAD",
			method: "HEAD",
			fn: func(c *apihttp.Client, ctx context.Context) (*hubrun.Result, error) {
				return c.Head(ctx, "/test", nil)
			},
		},
		{
			name:   "GET",
			method: "GET",
			fn: func(c *apihttp.Client, ctx context.Context) (*hubrun.Result, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *apihttp.Client, ctx context.Context) (*hubrun.Result, error) {
				return c.Post(ctx, "/test", map[string]interface{}{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *apihttp.Client, ctx context.Context) (*hubrun.Result, error) {
				return c.Patch(ctx, "/test", map[string]interface{}{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *apihttp.Client, ctx context.Context) (*hubrun.Result, error) {
				return c.Put(ctx, "/test", map[string]interface{}{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *apihttp.Client, ctx context.Context) (*hubrun.Result, error) {
				return c.Delete(ctx, "/test", nil)
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := apihttp.NewClient(server.URL, auth.Select("", "", ""))

			result, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			require.Len(t, result.Responses, 1)
			assert.Equal(t, http.StatusOK, result.Last().StatusCode)
		})
	}
}

func TestClient_Authorization(t *testing.T) {
	t.Parallel()

	t.Run("bearer token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, auth.Select("test-token", "", ""))

		_, err := client.Get(context.Background(), "/user", nil)
		require.NoError(t, err)
	})

	t.Run("basic auth wins over token", func(t *testing.T) {
		t.Parallel()

		encoded := base64.StdEncoding.EncodeToString([]byte("octocat:secret"))

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Basic "+encoded, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, auth.Select("test-token", "octocat", "secret"))

		_, err := client.Get(context.Background(), "/user", nil)
		require.NoError(t, err)
	})

	t.Run("no credentials sends no header", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, auth.Select("", "", ""))

		_, err := client.Get(context.Background(), "/zen", nil)
		require.NoError(t, err)
	})
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("structured error body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = writer.Write([]byte(`{"message":"Not Found","documentation_url":"https://docs.github.com/rest"}`))
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, auth.Select("", "", ""))

		_, err := client.Get(context.Background(), "/missing", nil)
		require.Error(t, err)

		structured := &hubrun.StructuredError{}
		require.ErrorAs(t, err, &structured)
		assert.Equal(t, http.StatusNotFound, structured.StatusCode)
		assert.Equal(t, "Not Found", structured.Message)
		assert.True(t, hubrun.IsNotFound(err))
	})

	t.Run("unstructured body preserved", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("upstream exploded"))
		}))
		defer server.Close()

		client := apihttp.NewClient(server.URL, auth.Select("", "", ""))

		result, err := client.Get(context.Background(), "/zen", nil)
		require.Error(t, err)

		reqErr := &hubrun.RequestError{}
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
		assert.Equal(t, "upstream exploded", string(reqErr.Body))

		// The failing response is still recorded.
		require.Len(t, result.Responses, 1)
	})

	t.Run("connection failure is not classified", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		server.Close()

		client := apihttp.NewClient(server.URL, auth.Select("", "", ""))

		_, err := client.Get(context.Background(), "/zen", nil)
		require.Error(t, err)
		assert.False(t, hubrun.IsStructured(err))

		reqErr := &hubrun.RequestError{}
		assert.NotErrorAs(t, err, &reqErr)
	})
}

func TestClient_DebugLogging(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	logger := &MockLogger{}
	client := apihttp.NewClient(server.URL, auth.Select("super-secret-token", "", ""),
		apihttp.WithLogger(logger), apihttp.WithDebug(true))

	_, err := client.Get(context.Background(), "/user", nil)
	require.NoError(t, err)

	require.Len(t, logger.logs, 2)
	assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
	assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])

	requestFields, ok := logger.logs[0]["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "REDACTED", requestFields["authorization"])

	for _, entry := range logger.logs {
		assert.NotContains(t, fmt.Sprint(entry), "super-secret-token")
	}
}

func TestClient_RedirectAuthForwarding(t *testing.T) {
	t.Parallel()

	t.Run("non-forwarding strips auth on cross-host redirect", func(t *testing.T) {
		t.Parallel()

		var forwarded string

		target := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			forwarded = request.Header.Get("Authorization")
			writer.WriteHeader(http.StatusOK)
		}))
		defer target.Close()

		origin := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			http.Redirect(writer, request, target.URL+"/moved", http.StatusFound)
		}))
		defer origin.Close()

		client := apihttp.NewClient(origin.URL, auth.Select("abc123", "", ""),
			apihttp.WithNoForwardAuth(true))

		_, err := client.Get(context.Background(), "/old", nil)
		require.NoError(t, err)
		assert.Empty(t, forwarded)
	})

	t.Run("non-forwarding extras stripped, forwarding extras survive", func(t *testing.T) {
		t.Parallel()

		var afterRedirect http.Header

		target := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			afterRedirect = request.Header.Clone()
			writer.WriteHeader(http.StatusOK)
		}))
		defer target.Close()

		var plain http.Header

		origin := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/old" {
				http.Redirect(writer, request, target.URL+"/moved", http.StatusFound)

				return
			}

			plain = request.Header.Clone()
			writer.WriteHeader(http.StatusOK)
		}))
		defer origin.Close()

		client := apihttp.NewClient(origin.URL, auth.Select("", "", ""))
		client.QueueHeader("X-Extra", "keep")
		client.QueueNoForwardHeader("X-Request-Id", "abc-1")

		_, err := client.Get(context.Background(), "/old", nil)
		require.NoError(t, err)

		assert.Equal(t, "keep", afterRedirect.Get("X-Extra"))
		assert.Empty(t, afterRedirect.Get("X-Request-Id"), "non-forwarding extras must not cross hosts")

		// Both queues are one-shot: the next request carries neither.
		_, err = client.Get(context.Background(), "/plain", nil)
		require.NoError(t, err)
		assert.Empty(t, plain.Get("X-Extra"))
		assert.Empty(t, plain.Get("X-Request-Id"))
	})

	t.Run("default forwards auth", func(t *testing.T) {
		t.Parallel()

		var forwarded string

		target := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			forwarded = request.Header.Get("Authorization")
			writer.WriteHeader(http.StatusOK)
		}))
		defer target.Close()

		origin := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			http.Redirect(writer, request, target.URL+"/moved", http.StatusFound)
		}))
		defer origin.Close()

		client := apihttp.NewClient(origin.URL, auth.Select("abc123", "", ""))

		_, err := client.Get(context.Background(), "/old", nil)
		require.NoError(t, err)
		assert.Equal(t, "bearer abc123", forwarded)
	})
}

func TestNewClientFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("settings reach the wire", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "bearer tok-123", request.Header.Get("Authorization"))
			assert.Equal(t, "application/vnd.github+json", request.Header.Get("Accept"))
			assert.Equal(t, "hubrun-ci/1.0", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClientFromConfig(&hubrun.Config{
			BaseURL:   server.URL,
			Token:     "tok-123",
			Accept:    "application/vnd.github+json",
			UserAgent: "hubrun-ci/1.0",
		})

		_, err := client.Get(context.Background(), "/user", nil)
		require.NoError(t, err)
	})

	t.Run("username takes precedence over token", func(t *testing.T) {
		t.Parallel()

		encoded := base64.StdEncoding.EncodeToString([]byte("octocat:secret"))

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "Basic "+encoded, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := apihttp.NewClientFromConfig(&hubrun.Config{
			BaseURL:  server.URL,
			Token:    "tok-123",
			Username: "octocat",
			Password: "secret",
		})

		_, err := client.Get(context.Background(), "/user", nil)
		require.NoError(t, err)
	})
}

// countingTransport wraps the default transport and records how many
// exchanges pass through it.
type countingTransport struct {
	calls int
}

func (t *countingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	t.calls++

	return http.DefaultTransport.RoundTrip(request)
}

func TestClient_CustomHTTPClient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := &countingTransport{}
	client := apihttp.NewClient(server.URL, auth.Select("", "", ""),
		apihttp.WithHTTPClient(&http.Client{Transport: transport}))

	_, err := client.Get(context.Background(), "/zen", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, transport.calls)
}
