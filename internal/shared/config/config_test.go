package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Dataset.Source != "csv" {
		t.Errorf("Expected csv dataset source, got %s", cfg.Dataset.Source)
	}
	if cfg.Operations != DefaultOperations() {
		t.Errorf("Expected default operations, got %+v", cfg.Operations)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MODEL_KIND", "remote")
	t.Setenv("MODEL_TIMEOUT", "750ms")
	t.Setenv("KPI_BED_CAPACITY", "300")
	t.Setenv("ALERT_MASK_WARNING_DAYS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Model.Kind != "remote" {
		t.Errorf("Expected remote model, got %s", cfg.Model.Kind)
	}
	if cfg.Model.Timeout != 750*time.Millisecond {
		t.Errorf("Expected 750ms timeout, got %v", cfg.Model.Timeout)
	}
	if cfg.Operations.KPI.BedCapacity != 300 {
		t.Errorf("Expected bed capacity 300, got %d", cfg.Operations.KPI.BedCapacity)
	}
	if cfg.Operations.Alerts.MaskWarningDays != 10 {
		t.Errorf("Expected mask warning 10 days, got %d", cfg.Operations.Alerts.MaskWarningDays)
	}
}

func TestLoadOperationsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.yaml")
	content := "kpi:\n  patients_per_nurse: 12\n  bed_capacity: 320\nalerts:\n  occupancy_warning_pct: 70\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write operations file: %v", err)
	}

	ops, err := LoadOperationsFile(path, DefaultOperations())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if ops.KPI.PatientsPerNurse != 12 {
		t.Errorf("Expected 12 patients per nurse, got %d", ops.KPI.PatientsPerNurse)
	}
	if ops.KPI.BedCapacity != 320 {
		t.Errorf("Expected bed capacity 320, got %d", ops.KPI.BedCapacity)
	}
	// Keys absent from the file keep their defaults
	if ops.KPI.PatientsPerPhysician != 30 {
		t.Errorf("Expected 30 patients per physician, got %d", ops.KPI.PatientsPerPhysician)
	}
	if ops.Alerts.OccupancyWarningPct != 70 {
		t.Errorf("Expected warning at 70%%, got %d", ops.Alerts.OccupancyWarningPct)
	}
	if ops.Alerts.OccupancyCriticalPct != 90 {
		t.Errorf("Expected critical at 90%%, got %d", ops.Alerts.OccupancyCriticalPct)
	}
}

func TestLoadOperationsFileMissing(t *testing.T) {
	t.Setenv("OPERATIONS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Expected error for missing operations file")
	}
}

func TestOperationsValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(o *OperationsConfig)
		expectError bool
	}{
		{"Defaults", func(o *OperationsConfig) {}, false},
		{"Zero nurse ratio", func(o *OperationsConfig) { o.KPI.PatientsPerNurse = 0 }, true},
		{"Negative bed capacity", func(o *OperationsConfig) { o.KPI.BedCapacity = -1 }, true},
		{"Warning above critical", func(o *OperationsConfig) { o.Alerts.OccupancyWarningPct = 95 }, true},
		{"Mask warning below critical", func(o *OperationsConfig) { o.Alerts.MaskWarningDays = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := DefaultOperations()
			tt.mutate(&ops)
			err := ops.Validate()

			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestHISConnString(t *testing.T) {
	h := HISConfig{Host: "his", Port: 1433, Database: "HIS", User: "ro", Password: "pw"}
	want := "server=his;port=1433;database=HIS;user id=ro;password=pw"
	if got := h.ConnString(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	h.Encrypt = true
	if got := h.ConnString(); got != want+";encrypt=true;TrustServerCertificate=true" {
		t.Errorf("Expected encrypted conn string, got %q", got)
	}
}
