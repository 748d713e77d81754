package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "FLOWCANVAS_CONFIG"
	// ConfigFileName is the default config file name
	ConfigFileName = "flowcanvas.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "flowcanvas"
)

// extensions are tried in order in every search location.
var extensions = []string{".yaml", ".toml"}

// searchDirs lists the config directories after the working directory:
// $XDG_CONFIG_HOME/flowcanvas, ~/.config/flowcanvas, /etc/flowcanvas.
func searchDirs() []string {
	var dirs []string
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		dirs = append(dirs, filepath.Join(xdgHome, ConfigDirName))
	}
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", ConfigDirName))
	}
	return append(dirs, filepath.Join("/etc", ConfigDirName))
}

// FindConfigPath returns the first existing config file, or "" if there is
// none. $FLOWCANVAS_CONFIG wins when it names an existing file; then
// ./flowcanvas.{yaml,toml} and config.{yaml,toml} in each search directory.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	for _, ext := range extensions {
		name := ConfigDirName + ext
		if !fileExists(name) {
			continue
		}
		if abs, err := filepath.Abs(name); err == nil {
			return abs
		}
		return name
	}

	for _, dir := range searchDirs() {
		for _, ext := range extensions {
			if path := filepath.Join(dir, "config"+ext); fileExists(path) {
				return path
			}
		}
	}
	return ""
}

// DefaultConfigPath returns where `config init` writes a new file
func DefaultConfigPath() string {
	if dirs := searchDirs(); len(dirs) > 1 {
		return filepath.Join(dirs[0], "config.yaml")
	}
	return ConfigFileName
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
