package game

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Preset is one matchmaking table configuration. Presets are the only
// game configuration surface; everything else is derived per hand.
type Preset struct {
	ID               string `yaml:"id"`
	BetUnit          int64  `yaml:"betUnit"`
	MaxRaiseMultiple uint32 `yaml:"maxRaiseMultiple"`
	MinPlayers       int    `yaml:"minPlayers"`
	MaxPlayers       int    `yaml:"maxPlayers"`
	ActionTimeoutSec uint32 `yaml:"actionTimeoutSec"`
}

type presetsFile struct {
	Presets []Preset `yaml:"presets"`
}

func (p Preset) ActionTimeout() time.Duration {
	return time.Duration(p.ActionTimeoutSec) * time.Second
}

func (p Preset) validate() error {
	if p.ID == "" {
		return errors.New("preset is missing an id")
	}
	if p.BetUnit <= 0 {
		return errors.Errorf("preset %s: betUnit must be positive", p.ID)
	}
	if p.MaxRaiseMultiple < 1 {
		return errors.Errorf("preset %s: maxRaiseMultiple must be at least 1", p.ID)
	}
	if p.MinPlayers < 2 || p.MaxPlayers < p.MinPlayers {
		return errors.Errorf("preset %s: bad player bounds %d..%d", p.ID, p.MinPlayers, p.MaxPlayers)
	}
	if p.MaxPlayers > MaxSeats {
		return errors.Errorf("preset %s: maxPlayers %d exceeds the table capacity of %d", p.ID, p.MaxPlayers, MaxSeats)
	}
	return nil
}

// ReadPresets loads table presets from a YAML file.
func ReadPresets(fileName string) ([]Preset, error) {
	bytes, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading presets file %s", fileName)
	}
	var file presetsFile
	if err := yaml.Unmarshal(bytes, &file); err != nil {
		return nil, errors.Wrapf(err, "parsing presets file %s", fileName)
	}
	for _, p := range file.Presets {
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return file.Presets, nil
}
