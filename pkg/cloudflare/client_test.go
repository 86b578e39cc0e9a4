package cloudflare

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testCreds() Credentials {
	return Credentials{Token: "test-token"}
}

func TestClient_Do_SendsAuthAndJoinsPath(t *testing.T) {
	var gotPath, gotAuth, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"success":true,"result":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds(), time.Second, nil)

	env, err := client.Do(context.Background(), "GET", "/zones?name=example.com", nil)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !env.Success {
		t.Error("Success = false")
	}
	if gotPath != "/zones?name=example.com" {
		t.Errorf("path = %q, want /zones?name=example.com", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
}

func TestClient_Do_AddsLeadingSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds(), time.Second, nil)
	if _, err := client.Do(context.Background(), "GET", "zones", nil); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if gotPath != "/zones" {
		t.Errorf("path = %q, want /zones", gotPath)
	}
}

func TestClient_Do_AbsoluteURLVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	// Base URL points somewhere unreachable; the absolute path should win.
	client := NewClient("http://127.0.0.1:1", testCreds(), time.Second, nil)
	env, err := client.Do(context.Background(), "GET", server.URL+"/zones", nil)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !env.Success {
		t.Error("absolute URL request failed")
	}
}

func TestClient_Do_SendsBody(t *testing.T) {
	var gotMethod, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"success":true,"result":{"id":"new-zone"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds(), time.Second, nil)
	body := []byte(`{"name":"example.com"}`)

	env, err := client.Do(context.Background(), "post", "/zones", body)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %q, want POST (uppercased)", gotMethod)
	}
	if gotBody != `{"name":"example.com"}` {
		t.Errorf("body = %q", gotBody)
	}
	if got := env.Summary()[0]; got != "[Success: ID=new-zone]" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestClient_Do_ErrorEnvelopePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"success":false,"errors":[{"code":9109,"message":"Invalid access token"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds(), time.Second, nil)
	env, err := client.Do(context.Background(), "GET", "/zones", nil)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if env.Success {
		t.Error("Success = true for error response")
	}
	if len(env.Errors) != 1 || env.Errors[0].Code != 9109 {
		t.Errorf("Errors = %+v, want provider error passed through", env.Errors)
	}
}

func TestClient_Do_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream unavailable</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds(), time.Second, nil)
	env, err := client.Do(context.Background(), "GET", "/zones", nil)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if env.Success {
		t.Error("Success = true for 502 response")
	}
	if len(env.Errors) != 1 || env.Errors[0].Code != http.StatusBadGateway {
		t.Fatalf("Errors = %+v", env.Errors)
	}
	if !strings.Contains(env.Errors[0].Message, "upstream unavailable") {
		t.Errorf("message = %q, should include body snippet", env.Errors[0].Message)
	}
}

func TestClient_Do_EmptyBodyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds(), time.Second, nil)
	env, err := client.Do(context.Background(), "DELETE", "/zones/abc", nil)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if !env.Success {
		t.Error("empty 200 body should be treated as success")
	}
}

func TestClient_Do_ConnectionErrorBecomesEnvelope(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", testCreds(), 100*time.Millisecond, nil)

	env, err := client.Do(context.Background(), "GET", "/zones", nil)
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if env.Success {
		t.Error("Success = true for connection failure")
	}
	if len(env.Errors) != 1 || !strings.Contains(env.Errors[0].Message, "Connection error") {
		t.Errorf("Errors = %+v, want connection error envelope", env.Errors)
	}
}

func TestClient_Do_NoCredentials(t *testing.T) {
	client := NewClient("http://example.com", Credentials{}, time.Second, nil)

	_, err := client.Do(context.Background(), "GET", "/zones", nil)
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Do() error = %v, want ErrNoCredentials", err)
	}
}

func TestClient_Verify(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true,"result":{"id":"tok","status":"active"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, testCreds(), time.Second, nil)
	env, err := client.Verify(context.Background())
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if gotPath != "/user/tokens/verify" {
		t.Errorf("path = %q, want /user/tokens/verify", gotPath)
	}
	if !env.Success {
		t.Error("Verify() envelope not successful")
	}
}

func TestValidMethod(t *testing.T) {
	for _, m := range []string{"GET", "get", "Post", "PUT", "patch", "DELETE"} {
		if !ValidMethod(m) {
			t.Errorf("ValidMethod(%q) = false", m)
		}
	}
	for _, m := range []string{"HEAD", "OPTIONS", "TRACE", ""} {
		if ValidMethod(m) {
			t.Errorf("ValidMethod(%q) = true", m)
		}
	}
}
