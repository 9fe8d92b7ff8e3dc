// Package config loads the service's runtime configuration with
// github.com/spf13/viper, the way the teacher's internal/app referenced
// (but never shipped) a config.Config backing its `C.GetBool("debug")`
// call.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// NoisePreset names one of the built-in qc/noise.NoiseModel constructors.
type NoisePreset string

const (
	PresetSi1000              NoisePreset = "si1000"
	PresetUniformDepolarizing NoisePreset = "uniform_depolarizing"
)

// Config wraps a *viper.Viper carrying the service's settings: the
// pre-existing debug flag plus the noise-model selection this service
// adds. Values layer (lowest to highest priority) built-in defaults, an
// optional qplay.yaml config file, and QPLAY_-prefixed environment
// variables.
type Config struct {
	v *viper.Viper
}

// New builds a Config with defaults applied, an optional config file read
// (a missing file is not an error; a malformed one is), and environment
// overrides enabled.
func New() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("QPLAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("debug", false)
	v.SetDefault("port", 8080)
	v.SetDefault("noise.preset", string(PresetSi1000))
	v.SetDefault("noise.p", 0.001)
	v.SetDefault("noise.single_qubit_only", false)
	v.SetDefault("noise.immune_qubits", []int{})

	v.SetConfigName("qplay")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/qplay")
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: reading qplay.yaml: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// GetBool exposes the underlying viper lookup directly, matching the
// `C.GetBool("debug")` call already wired in internal/app.
func (c *Config) GetBool(key string) bool { return c.v.GetBool(key) }

// Port returns the HTTP port the service listens on.
func (c *Config) Port() int { return c.v.GetInt("port") }

// NoisePreset returns which qc/noise.NoiseModel constructor to use.
func (c *Config) NoisePreset() NoisePreset { return NoisePreset(c.v.GetString("noise.preset")) }

// NoiseP returns the single scaling parameter p fed to either preset.
func (c *Config) NoiseP() float64 { return c.v.GetFloat64("noise.p") }

// NoiseSingleQubitOnly returns the uniform_depolarizing preset's
// single_qubit_only flag; ignored by the si1000 preset.
func (c *Config) NoiseSingleQubitOnly() bool { return c.v.GetBool("noise.single_qubit_only") }

// ImmuneQubits returns the qubit indices configured to never receive
// inserted noise.
func (c *Config) ImmuneQubits() []int { return c.v.GetIntSlice("noise.immune_qubits") }
