package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/rarity-society/internal/domain/config"
)

// loadEnvFiles loads .env and .env.local from the project root so that
// ${VAR} references in rsoc.toml can be expanded. Variables already set
// in the environment win.
func loadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			slog.Warn("failed to load env file", "path", envFile, "error", err)
		}
	}
}

// loadDeployConfig decodes rsoc.toml over the defaults. It returns the
// defaults and an empty source when the file does not exist.
func loadDeployConfig(projectRoot string) (*config.DeployConfig, string, error) {
	cfg := config.DefaultDeployConfig()

	path := filepath.Join(projectRoot, DeployFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, "", nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, "", err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, "", fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if cfg.Accounts == nil {
		cfg.Accounts = map[string]config.AccountConfig{}
	}
	for name, acc := range cfg.Accounts {
		acc.PrivateKey = strings.TrimSpace(os.ExpandEnv(acc.PrivateKey))
		acc.Address = strings.TrimSpace(os.ExpandEnv(acc.Address))
		if acc.PrivateKey == "" && acc.Address == "" {
			return nil, "", fmt.Errorf("account %q needs a private_key or an address", name)
		}
		cfg.Accounts[name] = acc
	}
	cfg.Auction.ReservePrice = os.ExpandEnv(cfg.Auction.ReservePrice)

	return cfg, path, nil
}
