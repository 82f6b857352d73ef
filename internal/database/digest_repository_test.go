package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/aiwatch/internal/config"
)

func TestTrendLimitDefaults(t *testing.T) {
	assert.Equal(t, config.DefaultTrendTopKeywords, trendLimit(0))
	assert.Equal(t, config.DefaultTrendTopKeywords, trendLimit(-3))
	assert.Equal(t, 5, trendLimit(5))
}
