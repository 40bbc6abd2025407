package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type rosterFile struct {
	Participants []struct {
		Name string `yaml:"name"`
		Team string `yaml:"team"`
	} `yaml:"participants"`
}

// LoadFile reads a roster from a YAML file of the form:
//
//	participants:
//	  - name: Gurpreet
//	    team: SRH
func LoadFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Load(data)
}

// Load parses a YAML roster document.
func Load(data []byte) (*Roster, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(f.Participants) == 0 {
		return nil, fmt.Errorf("parse roster: no participants")
	}

	members := make([]Member, 0, len(f.Participants))
	for _, p := range f.Participants {
		members = append(members, Member{Name: p.Name, Team: p.Team})
	}
	return New(members)
}
