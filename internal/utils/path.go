package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds the vocabulary data directory for the typeaid binary,
// wherever it was installed.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
	markers       []string
}

// NewPathResolver creates a resolver for appName. A directory counts as a data
// directory when it holds at least one of the marker files.
func NewPathResolver(appName string, markers ...string) (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     platformConfigDir(homeDir, appName),
		markers:       markers,
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", execDir, pr.configDir)
	return pr, nil
}

// platformConfigDir returns the per-user config directory for appName.
func platformConfigDir(homeDir, appName string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, appName)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", appName)
	}
	return filepath.Join(homeDir, ".config", appName)
}

// GetDataDir resolves the data directory holding the tier files.
// It tries, in order:
// 1. userSpecifiedPath as given (absolute, or relative to cwd)
// 2. userSpecifiedPath relative to the executable directory
// 3. <exec>/data, <exec>/../data and <config>/data
// When nothing qualifies it returns the first candidate; the Store then
// reports the missing files through its diagnostic.
func (pr *PathResolver) GetDataDir(userSpecifiedPath string) string {
	candidates := pr.dataDirCandidates(userSpecifiedPath)
	for _, path := range candidates {
		if pr.isValidDataDir(path) {
			log.Debugf("Found valid data directory: %s", path)
			return path
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}
	return candidates[0]
}

func (pr *PathResolver) dataDirCandidates(userSpecifiedPath string) []string {
	var candidates []string
	if userSpecifiedPath != "" {
		candidates = append(candidates, userSpecifiedPath)
		if !filepath.IsAbs(userSpecifiedPath) {
			candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
		}
	}
	return append(candidates,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	)
}

// isValidDataDir checks if path is a directory containing any marker file.
func (pr *PathResolver) isValidDataDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	for _, marker := range pr.markers {
		if FileExists(filepath.Join(path, marker)) {
			return true
		}
	}
	return false
}
