package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider(t *testing.T) {
	t.Run("defaults without flash.toml", func(t *testing.T) {
		dir := t.TempDir()

		v := viper.New()
		v.Set("project_root", dir)
		v.Set("network", "localhost")

		cfg, err := Provider(v)
		require.NoError(t, err)

		assert.Equal(t, dir, cfg.ProjectRoot)
		assert.Equal(t, filepath.Join(dir, ".flash"), cfg.DataDir)
		assert.Equal(t, filepath.Join(dir, DefaultArtifactsDir), cfg.ArtifactsDir)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, "localhost", cfg.Network.Name)
		assert.True(t, cfg.Network.Local)
		assert.Equal(t, DefaultMnemonic, cfg.DevChain.Mnemonic)
	})

	t.Run("artifacts dir from flash.toml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FlashFileName, `artifacts_dir = "out"`)

		v := viper.New()
		v.Set("project_root", dir)

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "out"), cfg.ArtifactsDir)
	})

	t.Run("artifacts dir flag wins over flash.toml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FlashFileName, `artifacts_dir = "out"`)
		abs := filepath.Join(t.TempDir(), "elsewhere")

		v := viper.New()
		v.Set("project_root", dir)
		v.Set("artifacts_dir", abs)

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, abs, cfg.ArtifactsDir)
	})

	t.Run("unknown network is not fatal", func(t *testing.T) {
		dir := t.TempDir()

		v := viper.New()
		v.Set("project_root", dir)
		v.Set("network", "nope")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "nope", cfg.NetworkName)
		assert.Nil(t, cfg.Network)
	})

	t.Run("network without rpc url fails", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, FlashFileName, `
[networks.empty]
chain_id = 3
`)

		v := viper.New()
		v.Set("project_root", dir)
		v.Set("network", "empty")

		_, err := Provider(v)
		assert.Error(t, err)
	})
}

func TestSetupViper(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("network", "", "")
		cmd.Flags().String("artifacts", "", "")
		cmd.Flags().Bool("non-interactive", false, "")
		cmd.Flags().Duration("timeout", 0, "")
		return cmd
	}

	t.Run("defaults", func(t *testing.T) {
		v := SetupViper("/tmp/project", newCmd())

		assert.Equal(t, "localhost", v.GetString("network"))
		assert.Equal(t, 5*time.Minute, v.GetDuration("timeout"))
		assert.Equal(t, "/tmp/project", v.GetString("project_root"))
		assert.False(t, v.GetBool("non_interactive"))
	})

	t.Run("flags override defaults", func(t *testing.T) {
		cmd := newCmd()
		require.NoError(t, cmd.Flags().Set("network", "ropsten"))
		require.NoError(t, cmd.Flags().Set("artifacts", "build"))
		require.NoError(t, cmd.Flags().Set("non-interactive", "true"))

		v := SetupViper("/tmp/project", cmd)

		assert.Equal(t, "ropsten", v.GetString("network"))
		assert.Equal(t, "build", v.GetString("artifacts_dir"))
		assert.True(t, v.GetBool("non_interactive"))
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("FLASH_NETWORK", "kovan")
		t.Setenv("FLASH_TIMEOUT", "30s")

		v := SetupViper("/tmp/project", newCmd())

		assert.Equal(t, "kovan", v.GetString("network"))
		assert.Equal(t, 30*time.Second, v.GetDuration("timeout"))
	})
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, FlashFileName, "")
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root, err := filepath.EvalSymlinks(FindProjectRoot())
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, expected, root)
}
