package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Options(t *testing.T) {
	cfg := Config{PurgeOrphans: true, VerifyBeforeCreate: true}

	opts := cfg.Options()
	assert.True(t, opts.DoCreate)
	assert.True(t, opts.DoUpdate)
	assert.False(t, opts.DoPurgeDuplicates)
	assert.True(t, opts.DoPurgeOrphans)
	assert.True(t, opts.VerifyBeforeCreate)
	assert.False(t, opts.DryRun)
}
