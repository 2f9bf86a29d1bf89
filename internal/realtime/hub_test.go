package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "notifications:u1", Channel("u1"))
	assert.NotEqual(t, Channel("u1"), Channel("u10"))
}
