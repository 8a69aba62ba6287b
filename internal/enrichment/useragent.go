package enrichment

import (
	"strings"

	"github.com/mssola/user_agent"
)

type Platform string

const (
	PlatformIOS       Platform = "ios"
	PlatformAndroid   Platform = "android"
	PlatformMobileWeb Platform = "mobile-web"
	PlatformDesktop   Platform = "desktop"
)

// HasApp reports whether the platform gets the app-open page rather than a
// plain redirect.
func (p Platform) HasApp() bool {
	return p == PlatformIOS || p == PlatformAndroid
}

// DetectPlatform classifies a user agent. Order matters: iOS tokens win over
// "android", which wins over the generic "mobile" token.
func DetectPlatform(uaString string) Platform {
	ua := strings.ToLower(uaString)

	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return PlatformIOS
	case strings.Contains(ua, "android"):
		return PlatformAndroid
	case strings.Contains(ua, "mobile"):
		return PlatformMobileWeb
	default:
		return PlatformDesktop
	}
}

type UAInfo struct {
	Browser    string
	OS         string
	DeviceType string
	Platform   Platform
}

const DeviceBot = "bot"

func (i *UAInfo) IsBot() bool {
	return i.DeviceType == DeviceBot
}

func ParseUserAgent(uaString string) *UAInfo {
	ua := user_agent.New(uaString)

	browser, _ := ua.Browser()
	deviceType := "desktop"

	if ua.Bot() {
		deviceType = DeviceBot
	} else if ua.Mobile() {
		deviceType = "mobile"
	}

	return &UAInfo{
		Browser:    browser,
		OS:         ua.OS(),
		DeviceType: deviceType,
		Platform:   DetectPlatform(uaString),
	}
}
