package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DUPLICATE_WINDOW_MINUTES", "7")

	cfg := Load()

	if cfg.Store.Driver != StoreDriverMemory {
		t.Fatalf("expected memory driver, got %q", cfg.Store.Driver)
	}
	if cfg.Ledger.DuplicateWindow != 7*time.Minute {
		t.Fatalf("expected 7m duplicate window, got %v", cfg.Ledger.DuplicateWindow)
	}
	if cfg.Printer.Width != 32 {
		t.Fatalf("expected default printer width 32, got %d", cfg.Printer.Width)
	}
	if cfg.DynamoDB.Table == "" {
		t.Fatalf("expected a default dynamodb table name")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", Name: "printshop", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	want := "host=db user=u password=p dbname=printshop port=5432 sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Fatalf("unexpected DSN:\n got %q\nwant %q", got, want)
	}
}

func TestAppConfig_Location(t *testing.T) {
	tests := []struct {
		name string
		tz   string
		want string
	}{
		{name: "empty uses local", tz: "", want: time.Local.String()},
		{name: "explicit local", tz: "Local", want: time.Local.String()},
		{name: "utc", tz: "UTC", want: "UTC"},
		{name: "unknown falls back", tz: "Mars/Olympus", want: time.Local.String()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := AppConfig{Timezone: tt.tz}
			if got := c.Location().String(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
