package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"katb.in/katbin"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaults(t *testing.T) {
	c, err := NewFileConfigurationService(nil).LoadConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if c.Database.Dialect != "sqlite" || c.Database.Connection != "katbin.db" {
		t.Errorf("database = %+v", c.Database)
	}
	if c.Web.Bind != ":8080" {
		t.Errorf("bind = %q", c.Web.Bind)
	}
	if c.Application.Domain != katbin.DefaultDomain {
		t.Errorf("domain = %q", c.Application.Domain)
	}
	if c.Application.Limits.PasteSize != katbin.DefaultPasteSize {
		t.Errorf("paste size = %v", c.Application.Limits.PasteSize)
	}
	if c.Logging.Level.LogrusLevel() != logrus.InfoLevel {
		t.Errorf("level = %v", c.Logging.Level.LogrusLevel())
	}
}

func TestMergeAndEnv(t *testing.T) {
	t.Setenv("KATBIN_TEST_KEY", "00112233")
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yml", `
database:
  dialect: postgres
  connection: "postgres://localhost/katbin"
sessions:
  authentication_key: '{{env "KATBIN_TEST_KEY"}}'
  remember_for: 24h
logging:
  level: debug
  format: json
application:
  domain: paste.example
  limits:
    paste_size: 64KiB
`)
	override := writeFile(t, dir, "local.yml", `
database:
  dialect: memory
web:
  bind: "127.0.0.1:9000"
`)

	c, err := NewFileConfigurationService([]string{base, override}).LoadConfiguration()
	if err != nil {
		t.Fatal(err)
	}
	if c.Database.Dialect != "memory" {
		t.Errorf("dialect = %q; want memory", c.Database.Dialect)
	}
	if c.Database.Connection != "postgres://localhost/katbin" {
		t.Errorf("connection = %q", c.Database.Connection)
	}
	if c.Web.Bind != "127.0.0.1:9000" {
		t.Errorf("bind = %q", c.Web.Bind)
	}
	if c.Sessions.AuthenticationKey != "00112233" {
		t.Errorf("authentication key = %q", c.Sessions.AuthenticationKey)
	}
	if time.Duration(c.Sessions.RememberFor) != 24*time.Hour {
		t.Errorf("remember_for = %v", time.Duration(c.Sessions.RememberFor))
	}
	if c.Logging.Level.LogrusLevel() != logrus.DebugLevel || c.Logging.Format != "json" {
		t.Errorf("logging = %+v", c.Logging)
	}
	if c.Application.Domain != "paste.example" {
		t.Errorf("domain = %q", c.Application.Domain)
	}
	if c.Application.Limits.PasteSize != 64*1024 {
		t.Errorf("paste size = %d", c.Application.Limits.PasteSize)
	}
}

func TestBadFiles(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"yaml":     "database: [unterminated",
		"template": "database: {{nope}}",
		"level":    "logging:\n  level: loud\n",
		"size":     "application:\n  limits:\n    paste_size: lots\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			p := writeFile(t, dir, name+".yml", body)
			if _, err := NewFileConfigurationService([]string{p}).LoadConfiguration(); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := NewFileConfigurationService([]string{filepath.Join(dir, "missing.yml")}).LoadConfiguration(); err == nil {
		t.Error("missing file loaded")
	}
}
