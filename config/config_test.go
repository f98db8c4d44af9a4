package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatk/retrieval-core/config"
)

func TestDefaultOptionsValidate(t *testing.T) {
	require.NoError(t, config.Default().Validate())
}

func TestValidateRejectsUnknownRankerMethod(t *testing.T) {
	o := config.Default()
	o.Ranker.Method = "made-up"
	assert.Error(t, o.Validate())
}

func TestValidateRejectsUnknownFeedbackMethod(t *testing.T) {
	o := config.Default()
	o.Feedback.Method = "made-up"
	assert.Error(t, o.Validate())
}

func TestValidateRejectsNegativeFeedbackParams(t *testing.T) {
	o := config.Default()
	o.Feedback.C = -1
	assert.Error(t, o.Validate())
}

func TestValidateRejectsOutOfRangeHashTableParams(t *testing.T) {
	o := config.Default()
	o.HashTable.MaxLoadFactor = 1.5
	assert.Error(t, o.Validate())

	o = config.Default()
	o.HashTable.ResizeRatio = 1.0
	assert.Error(t, o.Validate())
}

func TestValidateRejectsNonPositiveBudgets(t *testing.T) {
	o := config.Default()
	o.Indexer.RAMBudgetBytes = 0
	assert.Error(t, o.Validate())

	o = config.Default()
	o.Cache.MaxSize = 0
	assert.Error(t, o.Validate())

	o = config.Default()
	o.Cache.Shards = 0
	assert.Error(t, o.Validate())
}
