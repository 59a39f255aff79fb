package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const defaultDBName = "wealthlens.db"

// Environment variables honored by the server. A .env file in the
// working directory is loaded at startup, so these can live there too.
const (
	EnvDataDir         = "WEALTHLENS_DATA_DIR"
	EnvDBPath          = "WEALTHLENS_DB_PATH"
	EnvQuoteBaseURL    = "WEALTHLENS_QUOTE_BASE_URL"
	EnvRefreshSchedule = "WEALTHLENS_REFRESH_SCHEDULE"
	EnvParentWatch     = "WEALTHLENS_PARENT_WATCH"
)

// UserConfig is the optional on-disk configuration stored in the
// platform config directory.
type UserConfig struct {
	DBName  string `json:"db_name"`
	DataDir string `json:"data_dir"`
}

var runtimeDataDir string
var runtimePort = 8000

// SetRuntimeDataDir overrides the resolved data directory for this
// process, taking precedence over environment and user configuration.
func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

// SetRuntimePort records the port the server was started with.
func SetRuntimePort(port int) {
	if port > 0 {
		runtimePort = port
	}
}

// GetRuntimePort returns the port the server was started with.
func GetRuntimePort() int {
	return runtimePort
}

func isWindows() bool {
	return runtime.GOOS == "windows"
}

func appConfigDir() (string, error) {
	if isWindows() {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "WealthLens"), nil
		}
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "wealthlens"), nil
	}
	return filepath.Join(configDir, "wealthlens"), nil
}

func appConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadUserConfig reads the user configuration, returning defaults when
// the file is missing or unreadable.
func LoadUserConfig() UserConfig {
	defaults := UserConfig{DBName: defaultDBName}
	path, err := appConfigPath()
	if err != nil {
		return defaults
	}
	file, err := os.Open(path)
	if err != nil {
		return defaults
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&defaults); err != nil {
		return UserConfig{DBName: defaultDBName}
	}
	if strings.TrimSpace(defaults.DBName) == "" {
		defaults.DBName = defaultDBName
	}
	return defaults
}

// SaveUserConfig persists the user configuration to the platform config
// directory.
func SaveUserConfig(cfg UserConfig) error {
	path, err := appConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetDataDir resolves the data directory. Precedence: runtime flag,
// WEALTHLENS_DATA_DIR, user config, platform config directory. The
// directory is created if needed.
func GetDataDir() (string, error) {
	if runtimeDataDir != "" {
		if err := os.MkdirAll(runtimeDataDir, 0o755); err != nil {
			return "", err
		}
		return runtimeDataDir, nil
	}
	if envDir := os.Getenv(EnvDataDir); envDir != "" {
		if err := os.MkdirAll(envDir, 0o755); err != nil {
			return "", err
		}
		return envDir, nil
	}
	cfg := LoadUserConfig()
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return "", err
		}
		return cfg.DataDir, nil
	}
	defaultDir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(defaultDir, 0o755); err != nil {
		return "", err
	}
	return defaultDir, nil
}

// GetDBPath resolves the database file path. WEALTHLENS_DB_PATH wins;
// otherwise the configured DB name inside the data directory.
func GetDBPath() (string, error) {
	if envPath := os.Getenv(EnvDBPath); envPath != "" {
		return envPath, nil
	}
	cfg := LoadUserConfig()
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(cfg.DBName)
	if name == "" {
		name = defaultDBName
	}
	return filepath.Join(dataDir, name), nil
}

// GetQuoteBaseURL returns an alternate quote endpoint, empty for the
// built-in default.
func GetQuoteBaseURL() string {
	return strings.TrimSpace(os.Getenv(EnvQuoteBaseURL))
}

// GetRefreshSchedule returns the cron spec for the daily price refresh.
// Defaults to 18:30 local time, after NSE close.
func GetRefreshSchedule() string {
	if spec := strings.TrimSpace(os.Getenv(EnvRefreshSchedule)); spec != "" {
		return spec
	}
	return "30 18 * * *"
}
