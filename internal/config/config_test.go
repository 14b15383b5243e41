package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "STORE_DRIVER", "MONGODB_URI", "MONGODB_DB_NAME",
		"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID", "GOOGLE_SHEET_REPORT_RANGE",
		"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_REPORT_TO",
		"REPORT_CRON_SCHEDULE", "TIMEZONE", "YIELD_FUZZY_TOLERANCE", "IMPORT_MAX_ERRORS",
		"PENDING_IMPORT_TTL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("testdata-missing.env")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Store.Driver != StoreMongo {
		t.Errorf("server/store = %+v %+v", cfg.Server, cfg.Store)
	}
	if cfg.Import.FuzzyTolerance != 4 || cfg.Import.MaxErrors != 50 || cfg.Import.PendingTTL != 30*time.Minute {
		t.Errorf("import = %+v", cfg.Import)
	}
	if cfg.Sheets.Enabled() || cfg.WhatsApp.Enabled() {
		t.Error("optional integrations enabled without credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("YIELD_FUZZY_TOLERANCE", "2")
	t.Setenv("PENDING_IMPORT_TTL", "5m")

	cfg, err := Load("testdata-missing.env")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != StoreMemory || cfg.Import.FuzzyTolerance != 2 || cfg.Import.PendingTTL != 5*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"driver", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"tolerance", map[string]string{"YIELD_FUZZY_TOLERANCE": "four"}, "YIELD_FUZZY_TOLERANCE"},
		{"ttl", map[string]string{"PENDING_IMPORT_TTL": "soon"}, "PENDING_IMPORT_TTL"},
		{"sheets id", map[string]string{"GOOGLE_SHEETS_CREDENTIALS_PATH": "/tmp/creds.json"}, "GOOGLE_SHEET_DATABASE_ID"},
		{"whatsapp recipient", map[string]string{"WHATSAPP_TOKEN": "t", "WHATSAPP_PHONE_NUMBER_ID": "1"}, "WHATSAPP_REPORT_TO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("testdata-missing.env")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestReportingLocation(t *testing.T) {
	loc, err := ReportingConfig{Timezone: "UTC"}.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("Location = %v, %v", loc, err)
	}
	if _, err := (ReportingConfig{Timezone: "Mars/Olympus"}).Location(); err == nil {
		t.Fatal("expected an error for an unknown timezone")
	}
}
