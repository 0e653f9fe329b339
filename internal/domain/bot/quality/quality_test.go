package quality

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve_AllKeys(t *testing.T) {
	for _, key := range AllKeys {
		t.Run(string(key), func(t *testing.T) {
			spec := Resolve(key)
			require.NotEmpty(t, spec.Chain, "every quality key must resolve to a non-empty chain")

			// The mapping is a pure function: same key, same chain
			require.Equal(t, spec, Resolve(key))
		})
	}
}

func TestResolve_Chains(t *testing.T) {
	tests := []struct {
		key       Key
		chain     string
		audioOnly bool
	}{
		{KeyBest, "136+140/best[height<=720]/18", false},
		{Key1080p, "137+140/best[height<=1080]", false},
		{Key720p, "136+140/best[height<=720]/134+140", false},
		{Key480p, "135+140/best[height<=480]/134+140", false},
		{KeyAudio, "bestaudio[ext=m4a]/bestaudio", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			spec := Resolve(tt.key)
			require.Equal(t, tt.chain, spec.Chain)
			require.Equal(t, tt.audioOnly, spec.AudioOnly)
		})
	}
}

func TestResolve_UnknownKeyPanics(t *testing.T) {
	require.Panics(t, func() {
		Resolve(Key("4k"))
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Key
		wantErr bool
	}{
		{name: "best", raw: "best", want: KeyBest},
		{name: "audio", raw: "audio", want: KeyAudio},
		{name: "numeric 720", raw: "720", want: Key720p},
		{name: "unknown", raw: "4k", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExpectedSize(t *testing.T) {
	require.Equal(t, int64(30*1024*1024), ExpectedSize(Key480p))
	require.Equal(t, int64(150*1024*1024), ExpectedSize(Key1080p))

	// Audio has no tier entry and falls back to the default
	require.Equal(t, int64(50*1024*1024), ExpectedSize(KeyAudio))
}

func TestInstagramSpec(t *testing.T) {
	spec := InstagramSpec()
	require.Equal(t, "best[ext=mp4]/best", spec.Chain)
	require.False(t, spec.AudioOnly)
}

func TestLabel_AllKeysCovered(t *testing.T) {
	for _, key := range AllKeys {
		require.NotEmpty(t, Label(key))
	}
}
