package revmod

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert := require.New(t)
	assert.NoError(Version.Validate())
	assert.True(Version.GT(semver.MustParse("0.0.0")))
}
