package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"katb.in/katbin"
	"katb.in/katbin/internal/config"
)

type options struct {
	Environment string   `long:"env" description:"katbin environment (dev/production). Influences the default configuration set by including config.$ENV.yml." default:"dev"`
	ConfigFiles []string `long:"config" short:"c" description:"A configuration file (.yml) to read; can be specified multiple times."`
	Bind        string   `long:"bind" short:"b" description:"Address to listen on; overrides web.bind."`
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// configFiles lists config.yml and config.$ENV.yml when present, followed by
// every file named on the command line.
func (o *options) configFiles() []string {
	var files []string
	for _, f := range []string{"config.yml", fmt.Sprintf("config.%s.yml", o.Environment)} {
		if exists(f) {
			files = append(files, f)
		}
	}
	return append(files, o.ConfigFiles...)
}

func loadConfiguration(opts *options) (*katbin.Configuration, error) {
	c, err := config.NewFileConfigurationService(opts.configFiles()).LoadConfiguration()
	if err != nil {
		return nil, err
	}
	if opts.Bind != "" {
		c.Web.Bind = opts.Bind
	}
	return c, nil
}

func newLogger(c *katbin.Configuration) *logrus.Logger {
	logger := logrus.New()
	logger.Level = c.Logging.Level.LogrusLevel()
	if c.Logging.Format == "json" {
		logger.Formatter = &logrus.JSONFormatter{}
	} else {
		logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}
	return logger
}
