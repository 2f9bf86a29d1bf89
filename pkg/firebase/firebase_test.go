package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFirebase_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantMsg string
	}{
		{name: "empty path", path: "", wantMsg: "credentials path not provided"},
		{name: "missing file", path: filepath.Join(t.TempDir(), "absent.json"), wantMsg: "credentials file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := InitFirebase(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, app)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
