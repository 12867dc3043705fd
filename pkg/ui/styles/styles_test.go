package styles_test

import (
	"testing"

	"github.com/arthur-debert/rodeo/pkg/types"
	"github.com/arthur-debert/rodeo/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedStylesCoverOutcomes(t *testing.T) {
	for _, o := range types.AllOutcomes {
		t.Run(string(o), func(t *testing.T) {
			assert.True(t, styles.Has(string(o)), "style for outcome %s should exist", o)
		})
	}

	for _, name := range []string{"Header", "Program", "FilePath", "Muted", "DryRunBanner", "Success", "Error"} {
		assert.True(t, styles.Has(name), "style %s should exist", name)
	}
}

func TestGetUnknownStyle(t *testing.T) {
	assert.False(t, styles.Has("NoSuchStyle"))
	assert.Equal(t, "plain", styles.Render("NoSuchStyle", "plain"))
}

func TestLoadStylesFromDataRejectsBadYAML(t *testing.T) {
	require.Error(t, styles.LoadStylesFromData([]byte("colors: [")))
	// The previous registry stays in place
	assert.True(t, styles.Has("linked"))
}
