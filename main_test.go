package main

import (
	"context"
	"testing"

	"terrainwalk/game/config"
)

func TestConstants(t *testing.T) {
	if AppName == "" {
		t.Error("AppName is empty")
	}
	if Version == "" {
		t.Error("Version is empty")
	}
}

func TestGetConfigDirDefault(t *testing.T) {
	t.Setenv("CONFIG_DIR", "")
	if got := getConfigDirDefault(); got != "configs" {
		t.Errorf("default config dir = %q, want configs", got)
	}

	t.Setenv("CONFIG_DIR", "/tmp/maps")
	if got := getConfigDirDefault(); got != "/tmp/maps" {
		t.Errorf("config dir with env = %q, want /tmp/maps", got)
	}
}

func TestInitializeServices(t *testing.T) {
	configManager, err := config.NewManager("")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	svc := initializeServices(configManager)
	if svc == nil {
		t.Fatal("initializeServices returned nil")
	}

	configs, err := svc.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(configs) == 0 {
		t.Error("service has no map configs, want at least the built-in island")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port != 8080 {
		t.Errorf("port default = %d, want 8080", *port)
	}
	if *host != "localhost" {
		t.Errorf("host default = %q, want localhost", *host)
	}
	if *debug {
		t.Error("debug defaults to true, want false")
	}
}
