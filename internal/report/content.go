package report

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Chart names a content block can reference.
const (
	ChartCO2        = "co2"
	ChartEmissions  = "emissions"
	ChartSeaLevel   = "sea_level"
	ChartCoastlines = "coastlines"
)

//go:embed content.yaml
var defaultContent []byte

// Content is the narrative of the report page.
type Content struct {
	Title   string   `yaml:"title"`
	Author  string   `yaml:"author"`
	Blocks  []Block  `yaml:"blocks"`
	Sources []string `yaml:"sources"`
}

// Block is either a paragraph of text or a reference to a chart.
type Block struct {
	Text  string `yaml:"text,omitempty"`
	Chart string `yaml:"chart,omitempty"`
}

// DefaultContent returns the embedded report narrative.
func DefaultContent() (Content, error) {
	return LoadContent(defaultContent)
}

// LoadContent parses and validates YAML report content.
func LoadContent(data []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, fmt.Errorf("parse content: %w", err)
	}
	if err := c.validate(); err != nil {
		return Content{}, fmt.Errorf("invalid content: %w", err)
	}
	return c, nil
}

func (c Content) validate() error {
	if c.Title == "" {
		return errors.New("title is required")
	}
	for i, b := range c.Blocks {
		switch {
		case b.Text != "" && b.Chart != "":
			return fmt.Errorf("block %d has both text and chart", i)
		case b.Text == "" && b.Chart == "":
			return fmt.Errorf("block %d is empty", i)
		case b.Chart != "" && !knownChart(b.Chart):
			return fmt.Errorf("block %d references unknown chart %q", i, b.Chart)
		}
	}
	return nil
}

func knownChart(name string) bool {
	switch name {
	case ChartCO2, ChartEmissions, ChartSeaLevel, ChartCoastlines:
		return true
	}
	return false
}
