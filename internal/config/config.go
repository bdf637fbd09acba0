/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads the dialoguebox user configuration: box geometry and
// speed, fonts, key bindings, logging and telemetry. Values come from a YAML
// file merged over Defaults, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal.

type BoxConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Padding    float64 `yaml:"padding"`
	Speed      float64 `yaml:"speed"`
	FastFactor float64 `yaml:"fast_factor"`
	Leading    float64 `yaml:"leading"`
	// StylePack is an optional .zip style pack applied at startup.
	StylePack  string  `yaml:"style_pack,omitempty"`
}

type FontConfig struct {
	// Family is "basic" for the built-in bitmap font, "go" for the Go fonts,
	// or any name when Regular points at a TTF file.
	Family  string  `yaml:"family"`
	Regular string  `yaml:"regular"`
	Bold    string  `yaml:"bold"`
	Italic  string  `yaml:"italic"`
	SizePt  float64 `yaml:"size_pt"`
	DPI     float64 `yaml:"dpi"`
}

// InputConfig lists key names bound to the two dialogue buttons.
type InputConfig struct {
	Confirm   []string `yaml:"confirm"`
	Secondary []string `yaml:"secondary"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type TelemetryConfig struct {
	OptIn     bool   `yaml:"opt_in"`
	EventsURL string `yaml:"events_url"`
	CrashURL  string `yaml:"crash_url"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	Box           BoxConfig       `yaml:"box"`
	Font          FontConfig      `yaml:"font"`
	Input         InputConfig     `yaml:"input"`
	Logging       LoggingConfig   `yaml:"logging"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
}

// Defaults returns the application defaults: a 390×60 box at the bottom of a
// 400×240 screen.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Box:           BoxConfig{Width: 390, Height: 60, X: 5, Y: 175, Padding: 4, Speed: 0.5, FastFactor: 4},
		Font:          FontConfig{Family: "basic", SizePt: 12, DPI: 72},
		Input: InputConfig{
			Confirm:   []string{"Z", "Enter", "Space"},
			Secondary: []string{"X", "Backspace"},
		},
		Logging:   LoggingConfig{Level: "info", Format: "console"},
		Telemetry: TelemetryConfig{},
	}
}

// Env var names used as overrides.
const (
	EnvBoxWidth       = "DBX_BOX_WIDTH"
	EnvBoxHeight      = "DBX_BOX_HEIGHT"
	EnvBoxSpeed       = "DBX_BOX_SPEED"
	EnvFontFamily     = "DBX_FONT_FAMILY"
	EnvStylePack      = "DBX_STYLE_PACK"
	EnvTelemetryOptIn = "DBX_TELEMETRY_OPT_IN"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "DBX_LOG_LEVEL"
	EnvLogFormat = "DBX_LOG_FORMAT"
	EnvLogSource = "DBX_LOG_SOURCE"
	EnvLogFile   = "DBX_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "DialogueBox")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "DialogueBox")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "dialoguebox")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the config file at path, or the per-user file when path is
// empty. A missing file yields the defaults; a malformed one is an error.
// Environment overrides are applied last.
func Load(path string) (AppConfig, error) {
	cfg := Defaults()
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, cfg.Box.Validate()
}

// Save writes cfg as YAML to path, or to the per-user file when path is empty.
func Save(path string, cfg AppConfig) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate rejects geometry the box cannot lay out.
func (b BoxConfig) Validate() error {
	switch {
	case b.Width <= 0 || b.Height <= 0:
		return fmt.Errorf("box size %vx%v must be positive", b.Width, b.Height)
	case b.Padding < 0:
		return fmt.Errorf("box padding %v is negative", b.Padding)
	case b.Speed < 0:
		return fmt.Errorf("box speed %v is negative", b.Speed)
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	mergeFloat(&dst.Box.Width, src.Box.Width)
	mergeFloat(&dst.Box.Height, src.Box.Height)
	mergeFloat(&dst.Box.X, src.Box.X)
	mergeFloat(&dst.Box.Y, src.Box.Y)
	mergeFloat(&dst.Box.Padding, src.Box.Padding)
	mergeFloat(&dst.Box.Speed, src.Box.Speed)
	mergeFloat(&dst.Box.FastFactor, src.Box.FastFactor)
	mergeFloat(&dst.Box.Leading, src.Box.Leading)
	mergeString(&dst.Box.StylePack, src.Box.StylePack)
	// font
	if v := strings.TrimSpace(src.Font.Family); v != "" {
		dst.Font.Family = strings.ToLower(v)
	}
	mergeString(&dst.Font.Regular, src.Font.Regular)
	mergeString(&dst.Font.Bold, src.Font.Bold)
	mergeString(&dst.Font.Italic, src.Font.Italic)
	mergeFloat(&dst.Font.SizePt, src.Font.SizePt)
	mergeFloat(&dst.Font.DPI, src.Font.DPI)
	// input: a listed button replaces the default bindings
	if len(src.Input.Confirm) > 0 {
		dst.Input.Confirm = src.Input.Confirm
	}
	if len(src.Input.Secondary) > 0 {
		dst.Input.Secondary = src.Input.Secondary
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	mergeString(&dst.Logging.File, src.Logging.File)
	// booleans: copy directly from src (file) so user preferences persist
	dst.Telemetry.OptIn = src.Telemetry.OptIn
	mergeString(&dst.Telemetry.EventsURL, src.Telemetry.EventsURL)
	mergeString(&dst.Telemetry.CrashURL, src.Telemetry.CrashURL)
}

func mergeFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func envFloat(name string, dst *float64) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	envFloat(EnvBoxWidth, &cfg.Box.Width)
	envFloat(EnvBoxHeight, &cfg.Box.Height)
	envFloat(EnvBoxSpeed, &cfg.Box.Speed)
	if v := strings.TrimSpace(os.Getenv(EnvFontFamily)); v != "" {
		cfg.Font.Family = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStylePack)); v != "" {
		cfg.Box.StylePack = v
	}
	if v := os.Getenv(EnvTelemetryOptIn); strings.TrimSpace(v) != "" {
		cfg.Telemetry.OptIn = parseBool(v)
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogSource); strings.TrimSpace(v) != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"box.width":        EnvBoxWidth,
	"box.height":       EnvBoxHeight,
	"box.speed":        EnvBoxSpeed,
	"box.style_pack":   EnvStylePack,
	"font.family":      EnvFontFamily,
	"telemetry.opt_in": EnvTelemetryOptIn,
	"logging.level":    EnvLogLevel,
	"logging.format":   EnvLogFormat,
	"logging.source":   EnvLogSource,
	"logging.file":     EnvLogFile,
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// Setting is one effective value of an overridable key. Env names the
// variable that supplied it, empty when it came from the file or defaults.
type Setting struct {
	Key   string
	Value string
	Env   string
}

// Settings lists every key with an environment override, sorted by key.
func Settings(cfg AppConfig) []Setting {
	num := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	values := map[string]string{
		"box.width":        num(cfg.Box.Width),
		"box.height":       num(cfg.Box.Height),
		"box.speed":        num(cfg.Box.Speed),
		"box.style_pack":   cfg.Box.StylePack,
		"font.family":      cfg.Font.Family,
		"telemetry.opt_in": strconv.FormatBool(cfg.Telemetry.OptIn),
		"logging.level":    cfg.Logging.Level,
		"logging.format":   cfg.Logging.Format,
		"logging.source":   strconv.FormatBool(cfg.Logging.Source),
		"logging.file":     cfg.Logging.File,
	}
	out := make([]Setting, 0, len(envKeys))
	for key := range envKeys {
		env, _ := EnvOverrideFor(key)
		out = append(out, Setting{Key: key, Value: values[key], Env: env})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
