package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifestValidate(t *testing.T) {
	valid := NodeManifest{Type: "http_request", Version: "1.0.0"}
	assert.NoError(t, valid.Validate())

	missingType := NodeManifest{Version: "1.0.0"}
	assert.ErrorIs(t, missingType.Validate(), ErrManifestInvalid)

	missingVersion := NodeManifest{Type: "http_request"}
	assert.ErrorIs(t, missingVersion.Validate(), ErrManifestInvalid)
}

func TestRequiredInputs(t *testing.T) {
	m := NodeManifest{
		Type:    "join",
		Version: "1.0.0",
		Inputs: []PortSpec{
			{Name: "a", Required: true},
			{Name: "b"},
			{Name: "c", Required: true},
		},
	}
	assert.Equal(t, []string{"a", "c"}, m.RequiredInputs())

	none := NodeManifest{Type: "src", Version: "1.0.0"}
	assert.Empty(t, none.RequiredInputs())
}
