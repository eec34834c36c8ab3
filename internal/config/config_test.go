package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Protocol: ProtocolConfig{
			DefaultVersion: "5.0.1",
			Peers: map[string]string{
				"archive": "2.4.3",
			},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port

		err := cfg.Validate()
		if err == nil {
			t.Fatalf("expected error for port %d", port)
		}
		if !strings.Contains(err.Error(), "http.port") {
			t.Errorf("unexpected error message: %v", err)
		}
	}
}

func TestValidate_InvalidDefaultVersion(t *testing.T) {
	cfg := validConfig()
	cfg.Protocol.DefaultVersion = "five"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid default version")
	}
	if !strings.Contains(err.Error(), "protocol.default_version") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestValidate_InvalidPeerVersion(t *testing.T) {
	cfg := validConfig()
	cfg.Protocol.Peers["archive"] = "2.x"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid peer version")
	}
	if !strings.Contains(err.Error(), "protocol.peers.archive") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("read timeout: got %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("write timeout: got %d, want 10", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("shutdown timeout: got %d, want 10", cfg.HTTP.ShutdownSec)
	}
	if cfg.Protocol.DefaultVersion == "" {
		t.Error("default version not filled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.ReadTimeoutSec = 30
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("explicit read timeout overwritten: got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Protocol.DefaultVersion != "5.0.1" {
		t.Errorf("explicit default version overwritten: got %s", cfg.Protocol.DefaultVersion)
	}
}

func TestDefaultVersionAndPeers_Parsed(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.DefaultVersion().String(); got != "5.0.1" {
		t.Errorf("default version: got %s", got)
	}
	peers := cfg.PeerVersions()
	if got, ok := peers["archive"]; !ok || got.String() != "2.4.3" {
		t.Errorf("peers: got %v", peers)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("QG_TEST_PORT", "9090")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"set variable", "port: ${QG_TEST_PORT}", "port: 9090"},
		{"unset variable", "port: ${QG_TEST_UNSET}", "port: "},
		{"unset with default", "port: ${QG_TEST_UNSET:-8080}", "port: 8080"},
		{"set wins over default", "port: ${QG_TEST_PORT:-8080}", "port: 9090"},
		{"no variables", "port: 8080", "port: 8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(expandEnvVars([]byte(tt.in))); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
