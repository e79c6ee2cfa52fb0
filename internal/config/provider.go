package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flash-protocol/flash-deployer/internal/domain"
	"github.com/flash-protocol/flash-deployer/internal/domain/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultArtifactsDir is where Hardhat/Buidler write compiled artifacts
const DefaultArtifactsDir = "artifacts"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	flashConfig, err := loadFlashConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load flash config: %w", err)
	}

	// flag/env > flash.toml > "artifacts"
	artifactsDir := v.GetString("artifacts_dir")
	if artifactsDir == "" {
		artifactsDir = flashConfig.ArtifactsDir
	}
	if artifactsDir == "" {
		artifactsDir = DefaultArtifactsDir
	}
	if !filepath.IsAbs(artifactsDir) {
		artifactsDir = filepath.Join(projectRoot, artifactsDir)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, ".flash"),
		ArtifactsDir:   artifactsDir,
		NetworkName:    v.GetString("network"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		Timeout:        v.GetDuration("timeout"),
		FlashConfig:    flashConfig,
		DevChain:       flashConfig.DevChain,
	}

	// An unknown network is not fatal here: dev chain commands never touch it
	if cfg.NetworkName != "" {
		network, err := NewNetworkResolver(flashConfig).Resolve(cfg.NetworkName)
		if err != nil && !errors.Is(err, domain.ErrNetworkNotFound) {
			return nil, fmt.Errorf("failed to resolve network %s: %w", cfg.NetworkName, err)
		}
		cfg.Network = network
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find flash.toml.
// Falls back to the working directory so the built-in defaults still apply.
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, FlashFileName)); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("FLASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("network", "localhost")
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		bind := func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if f.Name == "artifacts" {
				key = "artifacts_dir"
			}
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		}
		cmd.Flags().VisitAll(bind)
		cmd.InheritedFlags().VisitAll(bind)
	}

	return v
}
