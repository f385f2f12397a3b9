package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshsymonds/mailview/internal/fetch"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Folder != "INBOX" || cfg.Limit != 10 || cfg.MinLimit != 5 || cfg.MaxLimit != 50 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.RPS != 0 || cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "subject is required") {
		t.Fatalf("expected missing subject error, got %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	yaml := writeFile(t, "mailview.yaml", `
subject: yaml@example.com
folder: spam
limit: 20
log:
  level: debug
`)
	dotenv := writeFile(t, ".env", "MAILVIEW_LIMIT=30\nMAILVIEW_FOLDER=draft\nMAILVIEW_RPS=3\n")
	t.Setenv("MAILVIEW_FOLDER", "INBOX")

	cfg, err := Load(Options{Path: yaml, EnvFile: dotenv})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Subject != "yaml@example.com" {
		t.Fatalf("subject from yaml lost: %q", cfg.Subject)
	}
	if cfg.Limit != 30 {
		t.Fatalf("dotenv should override yaml, limit=%d", cfg.Limit)
	}
	if cfg.Folder != "INBOX" {
		t.Fatalf("environment should override dotenv, folder=%q", cfg.Folder)
	}
	if cfg.RPS != 3 || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	req, err := cfg.Request()
	if err != nil || req.Folder != fetch.FolderInbox || req.Limit != 30 {
		t.Fatalf("request = %+v, %v", req, err)
	}
}

func TestLoadNestedEnv(t *testing.T) {
	t.Setenv("MAILVIEW_LOG_FORMAT", "json")
	t.Setenv("MAILVIEW_SUBJECT", "  env@example.com ")
	cfg, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Format != "json" || cfg.Subject != "env@example.com" {
		t.Fatalf("unexpected %+v", cfg)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Fatalf("expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Subject: "reader@example.com", Folder: "INBOX",
			Limit: 10, MinLimit: 5, MaxLimit: 50,
			Log: LogConfig{Level: "info", Format: "text"},
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "no-subject", mutate: func(c *Config) { c.Subject = "" }, want: "subject is required"},
		{name: "bad-subject", mutate: func(c *Config) { c.Subject = "reader" }, want: "not an email address"},
		{name: "inverted", mutate: func(c *Config) { c.MinLimit, c.MaxLimit = 40, 10 }, want: "below minimum"},
		{name: "limit-out", mutate: func(c *Config) { c.Limit = 51 }, want: "outside"},
		{name: "folder", mutate: func(c *Config) { c.Folder = "TRASH" }, want: "unknown folder"},
		{name: "rps", mutate: func(c *Config) { c.RPS = -1 }, want: "rps"},
		{name: "format", mutate: func(c *Config) { c.Log.Format = "xml" }, want: "log format"},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %v, want %q", err, tc.want)
			}
		})
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("log.level"); got != "MAILVIEW_LOG_LEVEL" {
		t.Fatalf("got %q", got)
	}
}

func TestFlagsOverrideEverything(t *testing.T) {
	t.Setenv("MAILVIEW_SUBJECT", "env@example.com")
	t.Setenv("MAILVIEW_LIMIT", "20")

	fs := flag.NewFlagSet("mailview", flag.ContinueOnError)
	flags := BindFlags(fs)
	args := []string{"-env-file", "", "-subject", "flag@example.com", "-folder", "spam"}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := flags.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Subject != "flag@example.com" || cfg.Folder != "SPAM" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.Limit != 20 {
		t.Fatalf("unset flag must not clobber env, limit=%d", cfg.Limit)
	}
}

func TestResolveValidates(t *testing.T) {
	fs := flag.NewFlagSet("mailview", flag.ContinueOnError)
	flags := BindFlags(fs)
	if err := fs.Parse([]string{"-env-file", "", "-subject", "a@example.com", "-limit", "500"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := flags.Resolve(); err == nil || !strings.Contains(err.Error(), "outside") {
		t.Fatalf("expected bounds error, got %v", err)
	}
}
