package cloudflare

import "testing"

func TestCredentialsFromEnv_Token(t *testing.T) {
	t.Setenv(EnvAPIToken, "tok-123")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvEmail, "")

	creds := CredentialsFromEnv()
	if !creds.Configured() {
		t.Fatal("Configured() = false with token set")
	}
	headers := creds.Headers()
	if headers["Authorization"] != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want bearer token", headers["Authorization"])
	}
	if _, ok := headers["X-Auth-Key"]; ok {
		t.Error("token auth should not set X-Auth-Key")
	}
}

func TestCredentialsFromEnv_KeyEmail(t *testing.T) {
	t.Setenv(EnvAPIToken, "")
	t.Setenv(EnvAPIKey, "key-456")
	t.Setenv(EnvEmail, "admin@example.com")

	creds := CredentialsFromEnv()
	if !creds.Configured() {
		t.Fatal("Configured() = false with key+email set")
	}
	headers := creds.Headers()
	if headers["X-Auth-Key"] != "key-456" {
		t.Errorf("X-Auth-Key = %q, want key-456", headers["X-Auth-Key"])
	}
	if headers["X-Auth-Email"] != "admin@example.com" {
		t.Errorf("X-Auth-Email = %q, want admin@example.com", headers["X-Auth-Email"])
	}
}

func TestCredentials_TokenTakesPrecedence(t *testing.T) {
	creds := Credentials{Token: "tok", Key: "key", Email: "mail@example.com"}

	headers := creds.Headers()
	if headers["Authorization"] != "Bearer tok" {
		t.Error("token should win over key+email")
	}
	if _, ok := headers["X-Auth-Key"]; ok {
		t.Error("key headers should be absent when token is set")
	}
}

func TestCredentials_KeyWithoutEmailNotConfigured(t *testing.T) {
	creds := Credentials{Key: "key-only"}

	if creds.Configured() {
		t.Error("Configured() = true with key but no email")
	}
	if creds.Headers() != nil {
		t.Error("Headers() should be nil without usable credentials")
	}
}

func TestCredentials_Describe(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  string
	}{
		{"token", Credentials{Token: "t"}, "Using API Token authentication"},
		{"key+email", Credentials{Key: "k", Email: "e@x.com"}, "Using API Key + Email authentication"},
		{"none", Credentials{}, "No authentication configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
