// Package mapping resolves logical marker roles to the channel names used by a
// particular lab's marker set. The configuration is consumed read-only by the
// feature calculators.
package mapping

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Marker is a logical marker role.
type Marker string

// Marker roles referenced by the feature calculators.
const (
	LHeel    Marker = "l_heel"
	RHeel    Marker = "r_heel"
	LMeta2   Marker = "l_meta_2"
	RMeta2   Marker = "r_meta_2"
	LMeta5   Marker = "l_meta_5"
	RMeta5   Marker = "r_meta_5"
	LAnkle   Marker = "l_ankle"
	RAnkle   Marker = "r_ankle"
	Sacrum   Marker = "sacrum"
	LPostHip Marker = "l_post_hip"
	RPostHip Marker = "r_post_hip"
	LAntHip  Marker = "l_ant_hip"
	RAntHip  Marker = "r_ant_hip"
	XCom     Marker = "xcom"
)

// Config maps marker roles to trial channel names.
type Config struct {
	markers map[Marker]string
}

// NewConfig builds a Config from an in-memory role map.
func NewConfig(markers map[Marker]string) *Config {
	m := make(map[Marker]string, len(markers))
	for role, name := range markers {
		m[role] = name
	}
	return &Config{markers: m}
}

type configFile struct {
	Markers map[string]string `toml:"markers"`
}

// LoadConfig reads a marker mapping from a TOML file with a single [markers]
// table of role = "CHANNEL" pairs.
func LoadConfig(path string) (*Config, error) {
	var file configFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode mapping config: %w", err)
	}
	if len(file.Markers) == 0 {
		return nil, fmt.Errorf("mapping config %s has no [markers] table", path)
	}
	markers := make(map[Marker]string, len(file.Markers))
	for role, name := range file.Markers {
		markers[Marker(role)] = name
	}
	return &Config{markers: markers}, nil
}

// MarkerName resolves a role to its channel name.
func (c *Config) MarkerName(role Marker) (string, error) {
	name, ok := c.markers[role]
	if !ok || name == "" {
		return "", fmt.Errorf("marker role %q is not mapped", role)
	}
	return name, nil
}

// HasMarker reports whether a role is mapped.
func (c *Config) HasMarker(role Marker) bool {
	name, ok := c.markers[role]
	return ok && name != ""
}
