package xdg

import (
	"os"
	"path/filepath"
)

// XDGDirs provides the XDG Base Directory Specification paths the CLI cares
// about: where user configuration lives and where to search for it.
type XDGDirs struct {
	configHome string
	configDirs []string
}

// NewXDGDirs creates an XDGDirs instance with proper defaults according to
// the XDG spec.
func NewXDGDirs() *XDGDirs {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current user's home from environment
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "/tmp" // Last resort fallback
		}
	}

	xdg := &XDGDirs{}

	// XDG_CONFIG_HOME: user-specific configuration files
	xdg.configHome = os.Getenv("XDG_CONFIG_HOME")
	if xdg.configHome == "" {
		xdg.configHome = filepath.Join(homeDir, ".config")
	}

	// XDG_CONFIG_DIRS: preference-ordered base directories to search for configuration files
	configDirsEnv := os.Getenv("XDG_CONFIG_DIRS")
	if configDirsEnv == "" {
		xdg.configDirs = []string{"/etc/xdg"}
	} else {
		xdg.configDirs = filepath.SplitList(configDirsEnv)
	}

	return xdg
}

// ConfigHome returns the base directory for user-specific configuration files
func (x *XDGDirs) ConfigHome() string {
	return x.configHome
}

// ConfigDirs returns the preference-ordered base directories for configuration files
func (x *XDGDirs) ConfigDirs() []string {
	return append([]string{x.configHome}, x.configDirs...)
}

// AppConfigDir returns the application-specific config directory
func (x *XDGDirs) AppConfigDir(appName string) string {
	return filepath.Join(x.configHome, appName)
}

// FindConfigFile searches the preference-ordered config directories for an
// application file and returns the first path that exists.
func (x *XDGDirs) FindConfigFile(appName, fileName string) (string, bool) {
	for _, dir := range x.ConfigDirs() {
		path := filepath.Join(dir, appName, fileName)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
