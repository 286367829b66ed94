package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrgraph/pkg/overlay"
	"github.com/gardar/ocrgraph/pkg/pipeline"
	"github.com/gardar/ocrgraph/pkg/trp"
)

type overlayYAML struct {
	Debug      bool     `yaml:"debug"`
	Text       bool     `yaml:"text"`
	BlockTypes []string `yaml:"block_types"`
}

type yamlConfig struct {
	pipeline.Config `yaml:",inline"`

	LogLevel string      `yaml:"log_level"`
	Overlay  overlayYAML `yaml:"overlay"`
}

// loadConfig reads a YAML file over the default configuration. An empty path gives
// the defaults.
func loadConfig(path string) (*yamlConfig, error) {
	yc := &yamlConfig{
		Config:  pipeline.DefaultConfig(),
		Overlay: overlayYAML{Text: true},
	}
	if path == "" {
		return yc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, yc); err != nil {
		return nil, err
	}
	return yc, nil
}

func (c *yamlConfig) pipelineConfig(logger logrus.FieldLogger) pipeline.Config {
	pc := c.Config
	pc.Logger = logger
	return pc
}

func (c *yamlConfig) overlayConfig(logger logrus.FieldLogger) overlay.Config {
	oc := overlay.DefaultConfig()
	oc.Debug = c.Overlay.Debug
	oc.Text = c.Overlay.Text
	if len(c.Overlay.BlockTypes) > 0 {
		oc.BlockTypes = make([]trp.BlockType, len(c.Overlay.BlockTypes))
		for i, t := range c.Overlay.BlockTypes {
			oc.BlockTypes[i] = trp.BlockType(strings.ToUpper(strings.TrimSpace(t)))
		}
	}
	oc.Logger = logger
	return oc
}
