// Package classify decides whether a callback request originates from a
// browser or from a native application.
package classify

import "regexp"

// Class is the client classification derived per request.
type Class int

const (
	// Browser covers regular web browsers, including mobile browsers.
	Browser Class = iota
	// NativeApp covers native clients and embedded mobile runtimes.
	NativeApp
)

// String implements fmt.Stringer for log fields.
func (c Class) String() string {
	if c == Browser {
		return "browser"
	}
	return "native_app"
}

// Explicit hint values accepted via the `type` query parameter.
const (
	HintBrowser = "browser"
	HintMobile  = "mobile"
)

var (
	browserPattern       = regexp.MustCompile(`(?i)Mozilla|Chrome|Safari|Firefox|Edge|Opera`)
	nativeWrapperPattern = regexp.MustCompile(`(?i)Mobile.*App|ReactNative|Expo`)
)

// Classify applies the classification policy, first match wins:
//
//  1. hint "browser" forces Browser
//  2. hint "mobile" forces NativeApp
//  3. a browser-engine user agent that is not a native wrapper is Browser
//  4. everything else is NativeApp
//
// An absent user agent falls through to NativeApp; native HTTP clients often
// omit or spoof minimal headers.
func Classify(hint, userAgent string) Class {
	switch hint {
	case HintBrowser:
		return Browser
	case HintMobile:
		return NativeApp
	}
	if browserPattern.MatchString(userAgent) && !nativeWrapperPattern.MatchString(userAgent) {
		return Browser
	}
	return NativeApp
}
