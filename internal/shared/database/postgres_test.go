package database

import (
	"testing"
	"time"

	"github.com/pitie-urgences/forecast/internal/shared/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: 5433, User: "urgences", Password: "pw",
		Database: "urgences", SSLMode: "disable",
	}

	pc, err := poolConfig(cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if pc.MaxConns != 4 {
		t.Errorf("Expected 4 connections, got %d", pc.MaxConns)
	}
	if pc.ConnConfig.Host != "db" || pc.ConnConfig.Port != 5433 {
		t.Errorf("Expected db:5433, got %s:%d", pc.ConnConfig.Host, pc.ConnConfig.Port)
	}
	if pc.ConnConfig.ConnectTimeout != 5*time.Second {
		t.Errorf("Expected 5s connect timeout, got %v", pc.ConnConfig.ConnectTimeout)
	}
	if got := pc.ConnConfig.RuntimeParams["application_name"]; got != applicationName {
		t.Errorf("Expected application name %s, got %q", applicationName, got)
	}
}

func TestPoolConfigInvalid(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "db", Port: 5432, User: "urgences", Password: "pw",
		Database: "urgences", SSLMode: "sometimes",
	}
	if _, err := poolConfig(cfg); err == nil {
		t.Error("Expected error for invalid sslmode")
	}
}
