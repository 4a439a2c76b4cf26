package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_Creation(t *testing.T) {
	// Handler logic is exercised through the integration tests; this
	// only verifies construction.
	assert.NotNil(t, &Handler{})
}
