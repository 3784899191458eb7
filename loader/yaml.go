package loader

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlFile is the top-level layout of a YAML content file.
type yamlFile struct {
	Game *struct {
		Title   string `yaml:"title"`
		Author  string `yaml:"author"`
		Version string `yaml:"version"`
		Intro   string `yaml:"intro"`
	} `yaml:"game"`
	Cases []rawCase `yaml:"cases"`
}

// readYAML decodes one YAML content file into the collector. Unknown keys
// are rejected so typos in field names surface at load time.
func readYAML(path, name string, coll *collector) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var f yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("decoding yaml: %w", err)
	}

	if f.Game != nil {
		coll.games = append(coll.games, rawGame{
			title:   f.Game.Title,
			author:  f.Game.Author,
			version: f.Game.Version,
			intro:   f.Game.Intro,
			source:  name,
		})
	}
	for _, rc := range f.Cases {
		rc.source = name
		coll.cases = append(coll.cases, rc)
	}
	return nil
}
