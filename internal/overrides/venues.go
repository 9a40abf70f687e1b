// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package overrides

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.yaml.in/yaml/v3"
)

// Venues is the on-disk venue override file:
//
//	venues:
//	  "Foo Bar Workshop": FBW
//	workshops:
//	  - FBW
type Venues struct {
	// Names maps a raw DBLP booktitle to its short name. A short name
	// without spaces becomes a per-year @string macro reference.
	Names map[string]string `yaml:"venues"`

	// Workshops lists extra venue names tagged as workshops.
	Workshops []string `yaml:"workshops"`
}

// LoadVenues reads the venue override file. A missing file yields an empty
// set of overrides; a file that does not parse is an error.
func LoadVenues(path string, log logrus.FieldLogger) (Venues, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.WithField("file", path).Debug("no venue override file")
			return Venues{}, nil
		}
		return Venues{}, fmt.Errorf("reading venue file %s: %w", path, err)
	}

	var v Venues
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Venues{}, fmt.Errorf("parsing venue file %s: %w", path, err)
	}
	for raw, short := range v.Names {
		if short == "" {
			log.WithField("file", path).Warnf("venue override %q has no short name, ignored", raw)
			delete(v.Names, raw)
		}
	}
	return v, nil
}
