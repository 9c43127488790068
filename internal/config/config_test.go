package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "rag", cfg.Mode)
	assert.Equal(t, 5, cfg.RAG.K)
	assert.Equal(t, 10, cfg.KAG.Limit)
	assert.Equal(t, "standard", cfg.KAG.Variant)
	assert.Equal(t, 30, cfg.Monitor.ProbeIntervalSecs)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: kag\nkag:\n  base_url: http://kag:9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kag", cfg.Mode)
	assert.Equal(t, "http://kag:9000", cfg.KAG.BaseURL)
	assert.Equal(t, 10, cfg.KAG.Limit)
	assert.Equal(t, "standard", cfg.KAG.Variant)
	assert.Equal(t, 5, cfg.RAG.K)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	in := &AppConfig{
		Mode: "kag",
		RAG: RAGConfig{
			ServiceConfig: ServiceConfig{BaseURL: "http://rag:8000", TimeoutSecs: 10},
			K:             3,
			Concise:       true,
		},
		KAG: KAGConfig{
			ServiceConfig: ServiceConfig{BaseURL: "http://kag:8000", TimeoutSecs: 20},
			Limit:         7,
			Variant:       "text",
			DocumentType:  "invoice",
		},
		Monitor:      MonitorConfig{ProbeIntervalSecs: 15},
		QuickQueries: []string{"What is the total amount?"},
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResolvedSecretsPreferEnv(t *testing.T) {
	t.Setenv("DOCCHAT_TEST_KEY", "from-env")
	s := ServiceConfig{APIKey: "from-file", APIKeyEnv: "DOCCHAT_TEST_KEY"}
	assert.Equal(t, "from-env", s.ResolvedAPIKey())

	s = ServiceConfig{APIKey: "from-file", APIKeyEnv: "DOCCHAT_TEST_KEY_UNSET"}
	assert.Equal(t, "from-file", s.ResolvedAPIKey())

	t.Setenv("DOCCHAT_TEST_PASS", "pw-env")
	p := ServiceConfig{Password: "pw-file", PasswordEnv: "DOCCHAT_TEST_PASS"}
	assert.Equal(t, "pw-env", p.ResolvedPassword())
}
