// Package flags holds the process-wide options of gotrz. Trajectory readers
// take their defaults from here (for instance, whether lengths are converted
// to Angstrom), but callers can always override them per reader.
//
// Values come from, in order of precedence: explicit Set calls, GOTRZ_*
// environment variables, the gotrz.cfg.json file given to Load, and the
// defaults below.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rmera/gotrz/units"
)

// Keys
const (
	ConvertLengthsKey = "convert_lengths"
	LengthUnitKey     = "length_unit"
	VelocityUnitKey   = "velocity_unit"
	TimeUnitKey       = "time_unit"
	LogLevelKey       = "log_level"
)

const configName = "gotrz.cfg.json"

func init() {
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(ConvertLengthsKey, true)
	viper.SetDefault(LengthUnitKey, units.Angstrom)
	viper.SetDefault(VelocityUnitKey, units.AngstromPs)
	viper.SetDefault(TimeUnitKey, units.Picosecond)
	viper.SetDefault(LogLevelKey, "info")
	viper.SetEnvPrefix("GOTRZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the configuration file from configDir.
func Load(configDir string) error {
	setDefaults()
	viper.SetConfigName(configName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return Converter().Validate()
}

// Reset restores the defaults, discarding anything set or loaded.
func Reset() {
	viper.Reset()
	setDefaults()
}

// Set overrides the value of key for the whole process.
func Set(key string, value any) {
	viper.Set(key, value)
}

// ConvertLengths reports whether readers convert lengths and velocities from the
// native units of the file by default.
func ConvertLengths() bool {
	return viper.GetBool(ConvertLengthsKey)
}

// Converter returns the configured target unit system.
func Converter() units.Converter {
	return units.Converter{
		Length:   viper.GetString(LengthUnitKey),
		Velocity: viper.GetString(VelocityUnitKey),
		Time:     viper.GetString(TimeUnitKey),
	}
}

// LogLevel returns the configured log level name.
func LogLevel() string {
	return viper.GetString(LogLevelKey)
}
