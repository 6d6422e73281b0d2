package logger_test

import (
	"errors"
	"testing"

	"github.com/nikbrunner/favme/internal/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gotest.tools/v3/assert"
)

func TestWrap_ForwardsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := logger.Wrap(zap.New(core))

	log.Info("pruned", logger.String("name", "Music"), logger.Int("count", 2))
	log.Warnf("favicon %s failed", "go.dev")
	log.Error("save", logger.Error(errors.New("disk full")))

	entries := logs.All()
	assert.Assert(t, len(entries) == 3)
	assert.Equal(t, entries[0].Message, "pruned")
	assert.Equal(t, entries[0].ContextMap()["name"], "Music")
	assert.Equal(t, entries[1].Message, "favicon go.dev failed")
	assert.Equal(t, entries[2].ContextMap()["error"], "disk full")
}

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error", "bogus"} {
		t.Run(lvl, func(t *testing.T) {
			log, err := logger.New(lvl, false)
			assert.NilError(t, err)
			assert.Assert(t, log != nil)
		})
	}
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	log.Debug("ignored")
	log.Errorf("ignored %d", 1)
}
