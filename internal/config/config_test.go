package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("QUESTIONARY_PATH", "")
	t.Setenv("DIALOG_LOG_ENABLED", "")
	t.Setenv("DIALOG_LOG_PATH", "")
	t.Setenv("DIALOG_LOG_QUEUE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Catalog.Path != "" {
		t.Fatalf("expected embedded catalog, got %q", cfg.Catalog.Path)
	}
	if !cfg.DialogLog.Enabled || cfg.DialogLog.Path != "data/dialogs.db" || cfg.DialogLog.QueueSize != 256 {
		t.Fatalf("unexpected dialog log config %+v", cfg.DialogLog)
	}
	if cfg.DialogLog.Synchronous() {
		t.Fatal("expected async dialog log by default")
	}
}

func TestLoadZeroQueueMeansSynchronous(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DIALOG_LOG_ENABLED", "true")
	t.Setenv("DIALOG_LOG_QUEUE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.DialogLog.Enabled || !cfg.DialogLog.Synchronous() {
		t.Fatalf("expected synchronous dialog log, got %+v", cfg.DialogLog)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("QUESTIONARY_PATH", " /etc/mylife/catalog.yaml ")
	t.Setenv("DIALOG_LOG_ENABLED", "false")
	t.Setenv("DIALOG_LOG_QUEUE", "32")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Catalog.Path != "/etc/mylife/catalog.yaml" {
		t.Fatalf("unexpected catalog path %q", cfg.Catalog.Path)
	}
	if cfg.DialogLog.Enabled || cfg.DialogLog.QueueSize != 32 {
		t.Fatalf("unexpected dialog log config %+v", cfg.DialogLog)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"port with space": {"PORT", "80 80"},
		"bad bool":        {"DIALOG_LOG_ENABLED", "maybe"},
		"bad queue":       {"DIALOG_LOG_QUEUE", "many"},
		"negative queue":  {"DIALOG_LOG_QUEUE", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
