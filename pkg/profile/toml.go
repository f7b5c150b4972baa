package profile

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// tomlConfig mirrors Config with profiles as an array of tables.
type tomlConfig struct {
	Config
	Profiles []Profile `toml:"profiles"`
}

func parseTOML(data []byte) (*Config, error) {
	var tc tomlConfig
	md, err := toml.Decode(string(data), &tc)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	c := tc.Config
	c.Profiles = tc.Profiles
	return &c, nil
}
