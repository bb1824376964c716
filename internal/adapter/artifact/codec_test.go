package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecFor(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{path: "model.msgpack", want: CodecMsgpack},
		{path: "model.MPK", want: CodecMsgpack},
		{path: "/srv/models/model.json", want: CodecJSON},
		{path: "model.joblib", wantErr: true},
		{path: "model", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := CodecFor(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCodec)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadWriteFile(t *testing.T) {
	for _, ext := range []string{".msgpack", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "model"+ext)
			in := sportsModel(KindSGD)
			in.Loss = LossLogLoss

			require.NoError(t, WriteFile(path, in))

			var out ModelArtifact
			require.NoError(t, ReadFile(path, &out))
			assert.Equal(t, *in, out)
		})
	}
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		var out ModelArtifact
		err := ReadFile(filepath.Join(dir, "absent.msgpack"), &out)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read artifact")
	})

	t.Run("corrupt payload", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		var out ModelArtifact
		err := ReadFile(path, &out)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode json artifact")
	})
}
