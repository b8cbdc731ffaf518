/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures the relay by reading operating system environment variables:
the chat endpoint and identity, the list of rooms to join, the relay socket
path, and the issue tracker's location and API format.
*/
package configs

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig contains all configuration parameters required for the relay to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Settings
	Environment string

	// Chat Settings
	ChatURL      string
	ChatIdentity string
	Nick         string
	Rooms        []string

	// Relay Settings
	RelaySocket string

	// Tracker Settings
	TrackerFormat string
	TrackerURL    string

	// Credential Store Settings
	CredentialsFile string
}

// LoadConfig reads and parses the relay configuration from environment variables.
// It provides default values where the original deployment had them and performs
// the validation that must abort startup rather than fail at runtime.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// --- Chat Settings ---
	cfg.ChatURL = os.Getenv("CHAT_URL")
	if cfg.ChatURL == "" {
		return nil, fmt.Errorf("CHAT_URL environment variable is required (websocket endpoint of the chat service)")
	}

	cfg.ChatIdentity = os.Getenv("CHAT_IDENTITY")
	if cfg.ChatIdentity == "" {
		return nil, fmt.Errorf("CHAT_IDENTITY environment variable is required (the address used to authenticate the bot)")
	}

	// The nick defaults to the node part of the identity, as the original
	// deployment derived it from the bound address.
	cfg.Nick = os.Getenv("NICK")
	if cfg.Nick == "" {
		cfg.Nick = cfg.ChatIdentity
		if at := strings.Index(cfg.Nick, "@"); at > 0 {
			cfg.Nick = cfg.Nick[:at]
		}
	}

	roomsStr := os.Getenv("ROOMS")
	for _, room := range strings.Split(roomsStr, ",") {
		trimmed := strings.TrimSpace(room)
		if trimmed != "" {
			cfg.Rooms = append(cfg.Rooms, trimmed)
		}
	}
	if len(cfg.Rooms) == 0 {
		return nil, fmt.Errorf("ROOMS environment variable is required (comma-separated list of rooms to join)")
	}

	// --- Relay Settings ---
	cfg.RelaySocket = os.Getenv("RELAY_SOCKET")
	if cfg.RelaySocket == "" {
		cfg.RelaySocket = "/tmp/rugamia.ipc"
	}

	// --- Tracker Settings ---
	cfg.TrackerFormat = os.Getenv("TRACKER_FORMAT")
	if cfg.TrackerFormat == "" {
		cfg.TrackerFormat = "json"
	}
	if cfg.TrackerFormat != "xml" && cfg.TrackerFormat != "json" {
		return nil, fmt.Errorf("invalid TRACKER_FORMAT environment variable %q: it should be 'xml' or 'json'", cfg.TrackerFormat)
	}

	cfg.TrackerURL = os.Getenv("TRACKER_URL")
	if cfg.TrackerURL == "" {
		return nil, fmt.Errorf("TRACKER_URL environment variable is required (base URL of the tracker, including http://)")
	}
	cfg.TrackerURL = strings.TrimSuffix(cfg.TrackerURL, "/")

	// --- Credential Store Settings ---
	cfg.CredentialsFile = os.Getenv("CREDENTIALS_FILE")
	if cfg.CredentialsFile == "" {
		cfg.CredentialsFile = "./rugamia.cfg"
	}

	return cfg, nil
}
