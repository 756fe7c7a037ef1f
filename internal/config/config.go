// Package config loads katbin.Configuration from YAML files. Each file is
// expanded as a text/template first, so values may read {{env "KEY"}}.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	yaml "gopkg.in/yaml.v2"
	"katb.in/katbin"
)

var _ katbin.ConfigurationService = &fileConfigurationService{}

type fileConfigurationService struct {
	files []string
}

// LoadConfiguration merges the files in order; later files override earlier
// ones. Defaults fill whatever is left unset.
func (fc *fileConfigurationService) LoadConfiguration() (*katbin.Configuration, error) {
	var c katbin.Configuration
	for _, file := range fc.files {
		err := fc.appendFileToConfiguration(&c, file)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", file, err)
		}
	}
	c.ApplyDefaults()
	return &c, nil
}

func (fc *fileConfigurationService) appendFileToConfiguration(c *katbin.Configuration, filename string) error {
	tmpl, err := template.New(filepath.Base(filename)).Funcs(template.FuncMap{
		"env": func(key string) (string, error) {
			return os.Getenv(key), nil
		},
	}).ParseFiles(filename)
	if err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	err = tmpl.Execute(buf, c)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(buf.Bytes(), c)
}

func NewFileConfigurationService(files []string) katbin.ConfigurationService {
	return &fileConfigurationService{
		files: files,
	}
}
