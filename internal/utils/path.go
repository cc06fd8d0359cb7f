package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// wordListPatterns are the file names that mark a directory as holding word lists.
var wordListPatterns = []string{"*.txt", "*.mpk"}

// PathResolver resolves data and config locations relative to the running binary.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "jokak")
		}
		return filepath.Join(homeDir, ".config", "jokak")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "jokak")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "jokak")
	default:
		return filepath.Join(homeDir, ".config", "jokak")
	}
}

// GetDataDir resolves the directory holding word lists.
// It tries, in order: an absolute user path, the path relative to the
// executable, the path relative to the working directory, then data/ next to
// the executable, its parent and the config dir.
func (pr *PathResolver) GetDataDir(userSpecifiedPath string) (string, error) {
	candidates := pr.dataDirCandidates(userSpecifiedPath)
	for _, path := range candidates {
		if IsWordListDir(path) {
			log.Debugf("Found word list directory: %s", path)
			return path, nil
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}
	// nothing matched, report the most likely location
	return candidates[0], nil
}

func (pr *PathResolver) dataDirCandidates(userSpecifiedPath string) []string {
	var candidates []string
	if filepath.IsAbs(userSpecifiedPath) {
		candidates = append(candidates, userSpecifiedPath)
	}
	candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
	}
	return append(candidates,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
		filepath.Join(pr.configDir, "data"),
	)
}

// IsWordListDir checks if path is a directory with at least one word list file.
func IsWordListDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	for _, pattern := range wordListPatterns {
		matches, err := filepath.Glob(filepath.Join(path, pattern))
		if err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

// GetConfigPath returns the full path for a config file, falling back to
// ~/.jokak, the temp dir and the executable dir when the config dir is not writable.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	dirs := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, ".jokak"),
		filepath.Join(os.TempDir(), "jokak"),
		pr.executableDir,
	}
	for i, dir := range dirs {
		if CheckDirStatus(dir).Writable {
			path := filepath.Join(dir, filename)
			if i > 0 {
				log.Warnf("Using fallback config location: %s", path)
			}
			return path, nil
		}
	}
	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}
