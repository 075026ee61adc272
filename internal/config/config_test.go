package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("API_TOKEN", " secret ")
	t.Setenv("PLATNOSCI_KEY1", "k1")
	t.Setenv("PLATNOSCI_KEY2", "k2")
	t.Setenv("PLATNOSCI_POS_ID", "pos1, pos2,,pos3")
	t.Setenv("PLATNOSCI_ENCODING", "iso")
	t.Setenv("PLATNOSCI_CHECK_REPORT_SIG", "true")
	t.Setenv("PLATNOSCI_TIMEOUT", "5s")
	t.Setenv("RECONCILE_BATCH", "10")

	cfg := Load()

	assert.Equal(t, "secret", cfg.App.APIToken)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "k1", cfg.Platnosci.Key1)
	assert.Equal(t, "k2", cfg.Platnosci.Key2)
	assert.Equal(t, []string{"pos1", "pos2", "pos3"}, cfg.Platnosci.PosIDs)
	assert.Equal(t, "ISO", cfg.Platnosci.Encoding)
	assert.True(t, cfg.Platnosci.CheckReportSig)
	assert.False(t, cfg.Platnosci.HTTPDebug)
	assert.Equal(t, 5*time.Second, cfg.Platnosci.Timeout)
	assert.Equal(t, 10, cfg.Reconcile.Batch)
	assert.Equal(t, 5*time.Second, cfg.Reconcile.PollEvery)
	assert.Equal(t, time.Minute, cfg.Reconcile.RecheckIn)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList(" a "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,,b,"))
}
