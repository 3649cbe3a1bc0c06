package pagetemplate

import (
	"bytes"
	"embed"
	"fmt"
	"path"

	"github.com/prometeylabs/lander/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed defaults
var defaultsFS embed.FS

type defaultEntry struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	HTML        string            `yaml:"html"`
	CSS         string            `yaml:"css"`
	JS          string            `yaml:"js"`
	Variables   map[string]string `yaml:"variables"`
}

// Defaults returns the bundled starter templates, all active.
func Defaults() ([]models.LandingPageTemplate, error) {
	manifest, err := defaultsFS.ReadFile("defaults/templates.yml")
	if err != nil {
		return nil, err
	}
	var entries []defaultEntry
	dec := yaml.NewDecoder(bytes.NewReader(manifest))
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode default templates: %w", err)
	}

	out := make([]models.LandingPageTemplate, 0, len(entries))
	for _, e := range entries {
		t := models.LandingPageTemplate{
			Name:               e.Name,
			Description:        e.Description,
			AvailableVariables: e.Variables,
			IsActive:           true,
		}
		if t.HTMLTemplate, err = readDefault(e.HTML); err != nil {
			return nil, err
		}
		if t.CSSContent, err = readDefault(e.CSS); err != nil {
			return nil, err
		}
		if t.JSContent, err = readDefault(e.JS); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func readDefault(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	b, err := defaultsFS.ReadFile(path.Join("defaults", name))
	if err != nil {
		return "", fmt.Errorf("default template %s: %w", name, err)
	}
	return string(b), nil
}
