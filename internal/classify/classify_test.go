package classify

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	chromeUA   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0 Safari/537.36"
	expoUA     = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Expo/50.0"
	okhttpUA   = "okhttp/4.12.0"
	reactXPUA  = "MyApp/1.0 ReactNative"
	mobileApUA = "Mozilla/5.0 (Linux; Android 14) Mobile Portal App/2.1"
)

func TestClassifyExplicitHintWins(t *testing.T) {
	require.Equal(t, Browser, Classify(HintBrowser, okhttpUA))
	require.Equal(t, Browser, Classify(HintBrowser, ""))
	require.Equal(t, NativeApp, Classify(HintMobile, chromeUA))
}

func TestClassifyUserAgentHeuristic(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want Class
	}{
		{"desktop chrome", chromeUA, Browser},
		{"expo wrapper", expoUA, NativeApp},
		{"react native wrapper", reactXPUA, NativeApp},
		{"mobile app wrapper", mobileApUA, NativeApp},
		{"native http client", okhttpUA, NativeApp},
		{"empty user agent", "", NativeApp},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify("", tc.ua))
		})
	}
}

func TestClassifyUnknownHintFallsThrough(t *testing.T) {
	require.Equal(t, Browser, Classify("desktop", chromeUA))
	require.Equal(t, NativeApp, Classify("desktop", okhttpUA))
}
