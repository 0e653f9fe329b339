package cookies

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/clipgrab/clipgrab-bot/config"
	"github.com/clipgrab/clipgrab-bot/internal/domain/bot/entities"
)

func newStore(t *testing.T, fs afero.Fs, cfg *config.CookiesConfig) *Store {
	t.Helper()

	s, err := NewStore(fs, cfg, zerolog.Nop())
	require.NoError(t, err)

	return s
}

func TestNewStore_MaterializesFromEnvContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newStore(t, fs, &config.CookiesConfig{
		Dir:            "/cookies",
		YouTubeContent: `# Netscape HTTP Cookie File\n.youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc`,
	})

	data, err := afero.ReadFile(fs, "/cookies/youtube.com_cookies.txt")
	require.NoError(t, err)
	require.Equal(t, "# Netscape HTTP Cookie File\n.youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc", string(data))

	require.True(t, s.Configured(entities.PlatformYouTube))
	require.Equal(t, "/cookies/youtube.com_cookies.txt", s.Path(entities.PlatformYouTube))
}

func TestNewStore_KeepsExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cookies/youtube.com_cookies.txt", []byte("original"), 0o600))

	newStore(t, fs, &config.CookiesConfig{
		Dir:            "/cookies",
		YouTubeContent: "from-env",
	})

	data, err := afero.ReadFile(fs, "/cookies/youtube.com_cookies.txt")
	require.NoError(t, err)
	require.Equal(t, "original", string(data))
}

func TestNewStore_NoContentNoFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newStore(t, fs, &config.CookiesConfig{Dir: "/cookies"})

	require.False(t, s.Configured(entities.PlatformYouTube))
	require.False(t, s.Configured(entities.PlatformInstagram))
	require.Equal(t, "", s.Path(entities.PlatformInstagram))
}

func TestStore_PlatformsAreIndependent(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newStore(t, fs, &config.CookiesConfig{
		Dir:              "/cookies",
		InstagramContent: "ig-session",
	})

	require.False(t, s.Configured(entities.PlatformYouTube))
	require.True(t, s.Configured(entities.PlatformInstagram))
	require.Equal(t, "/cookies/instagram.com_cookies.txt", s.Path(entities.PlatformInstagram))
}

func TestStore_UnknownPlatform(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newStore(t, fs, &config.CookiesConfig{Dir: "/cookies"})

	require.Equal(t, "", s.Path(entities.PlatformUnknown))
	require.False(t, s.Configured(entities.PlatformUnknown))
}
