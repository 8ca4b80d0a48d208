package mime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByExtension(t *testing.T) {
	assert.Equal(t, HTML, ByExtension("/docs/index.html"))
	assert.Equal(t, CSS, ByExtension("style.css"))
	assert.Equal(t, PNG, ByExtension("/img/logo.png"))
	assert.Equal(t, Plain, ByExtension("notes.txt"))

	// the historical fallback, also covering extensionless paths
	assert.Equal(t, HTML, ByExtension("/cgi-bin/run.weird"))
	assert.Equal(t, HTML, ByExtension("/README"))
}
