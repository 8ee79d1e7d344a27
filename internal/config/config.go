package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

const configInvalidCode = "CONFIG_INVALID"

// Config holds the application configuration
type Config struct {
	Path       string `mapstructure:"path"`
	Threshold  uint32 `mapstructure:"threshold"`
	Workers    int    `mapstructure:"workers"`
	Output     string `mapstructure:"output"`
	Strict     bool   `mapstructure:"strict"`
	Editor     string `mapstructure:"editor"`
	Action     string `mapstructure:"browse_action"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	ColorLevel string `mapstructure:"color_level"`
	ColorPath  string `mapstructure:"color_path"`
	ColorTitle string `mapstructure:"color_title"`
	ColorDim   string `mapstructure:"color_dim"`
}

// C is the global config instance
var C Config

// Output modes accepted by the CLI
var outputModes = map[string]bool{"text": true, "hex": true, "json": true}

var logFormats = map[string]bool{"console": true, "json": true, "pretty": true}

var browseActions = map[string]bool{"print": true, "copy": true, "open": true}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true, "fatal": true,
}

// Init initializes configuration with viper
func Init() error {
	SetDefaults()

	viper.SetConfigName("mdpath")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "mdpath"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MDPATH")
	viper.AutomaticEnv()

	// A missing config file is fine; defaults and env still apply
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// SetDefaults registers every key's default value
func SetDefaults() {
	viper.SetDefault("path", ".")
	viper.SetDefault("threshold", 1000) // Lines before switching to parallel chunks
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("output", "text")
	viper.SetDefault("strict", false)
	viper.SetDefault("editor", getDefaultEditor())
	viper.SetDefault("browse_action", "print")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "console")
	viper.SetDefault("color_level", "35") // Magenta
	viper.SetDefault("color_path", "36")  // Cyan
	viper.SetDefault("color_title", "")   // Terminal default
	viper.SetDefault("color_dim", "90")   // Gray
}

// Validate rejects values the CLI cannot act on
func Validate() error {
	if out := GetOutput(); !outputModes[out] {
		return invalid(fmt.Errorf("unsupported output %q (supported: text, hex, json)", out))
	}
	if format := GetLogFormat(); !logFormats[format] {
		return invalid(fmt.Errorf("unsupported log format %q (supported: console, json, pretty)", format))
	}
	if level := GetLogLevel(); !logLevels[level] {
		return invalid(fmt.Errorf("unsupported log level %q (supported: trace, debug, info, warn, error, fatal)", level))
	}
	if action := GetBrowseAction(); !browseActions[action] {
		return invalid(fmt.Errorf("unsupported browse action %q (supported: print, copy, open)", action))
	}
	if viper.GetInt("workers") < 0 {
		return invalid(fmt.Errorf("workers must not be negative, got %d", viper.GetInt("workers")))
	}
	if viper.GetInt64("threshold") < 0 {
		return invalid(fmt.Errorf("threshold must not be negative, got %d", viper.GetInt64("threshold")))
	}
	return nil
}

func invalid(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration").
		WithTextCode(configInvalidCode)
}

// GetPath returns the markdown path with tilde expansion
func GetPath() string {
	return expandTilde(viper.GetString("path"))
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetThreshold returns the parallel threshold in lines
func GetThreshold() uint32 {
	return viper.GetUint32("threshold")
}

// GetWorkers returns the parallel worker bound
func GetWorkers() int {
	return viper.GetInt("workers")
}

// GetOutput returns the output mode
func GetOutput() string {
	return strings.ToLower(strings.TrimSpace(viper.GetString("output")))
}

// GetStrict returns whether outline uses CommonMark heading detection
func GetStrict() bool {
	return viper.GetBool("strict")
}

// GetEditor returns the editor command used by the open browse action
func GetEditor() string {
	return viper.GetString("editor")
}

// GetBrowseAction returns what browse does with a selection
func GetBrowseAction() string {
	return strings.ToLower(strings.TrimSpace(viper.GetString("browse_action")))
}

// GetLogLevel returns the log level
func GetLogLevel() string {
	return strings.ToLower(strings.TrimSpace(viper.GetString("log_level")))
}

// GetLogFormat returns the log format
func GetLogFormat() string {
	return strings.ToLower(strings.TrimSpace(viper.GetString("log_format")))
}

// GetColorLevel returns ANSI color code for heading levels
func GetColorLevel() string {
	return viper.GetString("color_level")
}

// GetColorPath returns ANSI color code for paths
func GetColorPath() string {
	return viper.GetString("color_path")
}

// GetColorTitle returns ANSI color code for titles
func GetColorTitle() string {
	return viper.GetString("color_title")
}

// GetColorDim returns ANSI color code for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetThreshold sets the threshold at runtime
func SetThreshold(threshold uint32) {
	viper.Set("threshold", threshold)
	C.Threshold = threshold
}

// SetStrict sets strict outline mode at runtime
func SetStrict(strict bool) {
	viper.Set("strict", strict)
	C.Strict = strict
}

// SetBrowseAction sets the browse action at runtime
func SetBrowseAction(action string) {
	viper.Set("browse_action", action)
	C.Action = action
}

// SetPath sets path at runtime
func SetPath(path string) {
	viper.Set("path", path)
	C.Path = path
}

// getDefaultEditor returns $VISUAL, then $EDITOR, then vi
func getDefaultEditor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	return "vi"
}
