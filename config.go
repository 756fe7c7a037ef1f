package katbin

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	*d = Duration(parsed)
	return err
}

// ByteSize accepts human-readable sizes such as "1MB" or "512 KiB".
type ByteSize uint64

func (b *ByteSize) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	n, err := humanize.ParseBytes(s)
	*b = ByteSize(n)
	return err
}

func (b ByteSize) String() string {
	return humanize.Bytes(uint64(b))
}

type LogLevel struct {
	l *logrus.Level
}

func (l *LogLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	lev, err := logrus.ParseLevel(s)
	if err != nil {
		return err
	}
	l.l = &lev
	return nil
}

func (l *LogLevel) LogrusLevel() logrus.Level {
	if l.l == nil {
		return logrus.InfoLevel
	}
	return *l.l
}

const (
	DefaultDomain      = "katb.in"
	DefaultPasteSize   = ByteSize(1 << 20)
	DefaultRememberFor = Duration(60 * 24 * time.Hour)
)

type Configuration struct {
	Database struct {
		Dialect    string
		Connection string
	}

	Web struct {
		Bind      string
		Proxied   bool
		Templates string
		Static    string
		SSL       *struct {
			Certificate string `yaml:"cert"`
			Key         string `yaml:"key"`
		}
	}

	Sessions struct {
		// Keys are hex-encoded.
		AuthenticationKey string   `yaml:"authentication_key"`
		ClientKey         string   `yaml:"client_key"`
		Secure            bool     `yaml:"secure"`
		RememberFor       Duration `yaml:"remember_for"`
	}

	Logging struct {
		Level  LogLevel
		Format string
	}

	Application struct {
		// Domain is the site's own host; URLs pointing at it are never
		// treated as redirects.
		Domain string
		Limits struct {
			PasteSize ByteSize `yaml:"paste_size"`
		}
	}
}

// ApplyDefaults fills fields left unset by every configuration file.
func (c *Configuration) ApplyDefaults() {
	if c.Database.Dialect == "" {
		c.Database.Dialect = "sqlite"
		if c.Database.Connection == "" {
			c.Database.Connection = "katbin.db"
		}
	}
	if c.Web.Bind == "" {
		c.Web.Bind = ":8080"
	}
	if c.Web.Templates == "" {
		c.Web.Templates = "templates/*.tmpl"
	}
	if c.Web.Static == "" {
		c.Web.Static = "public"
	}
	if c.Sessions.RememberFor == 0 {
		c.Sessions.RememberFor = DefaultRememberFor
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Application.Domain == "" {
		c.Application.Domain = DefaultDomain
	}
	if c.Application.Limits.PasteSize == 0 {
		c.Application.Limits.PasteSize = DefaultPasteSize
	}
}

type ConfigurationService interface {
	LoadConfiguration() (*Configuration, error)
}
