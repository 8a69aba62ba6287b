package enrichment

import "testing"

const (
	iPhoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	iPadUA    = "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"
	androidUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	desktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	mobileUA  = "Mozilla/5.0 (Mobile; rv:48.0) Gecko/48.0 Firefox/48.0 KAIOS/2.5"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want Platform
	}{
		{"iphone", iPhoneUA, PlatformIOS},
		{"ipad", iPadUA, PlatformIOS},
		{"ipod", "Mozilla/5.0 (iPod touch; CPU iPhone OS 12_0 like Mac OS X)", PlatformIOS},
		{"android", androidUA, PlatformAndroid},
		{"generic mobile", mobileUA, PlatformMobileWeb},
		{"desktop", desktopUA, PlatformDesktop},
		{"empty", "", PlatformDesktop},
		{"case insensitive", "SOMETHING IPHONE", PlatformIOS},
		{"ios token beats android", "iPhone Android", PlatformIOS},
		{"android beats mobile", "Android Mobile", PlatformAndroid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectPlatform(tt.ua); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %s; want %s", tt.ua, got, tt.want)
			}
		})
	}
}

func TestPlatform_HasApp(t *testing.T) {
	if !PlatformIOS.HasApp() || !PlatformAndroid.HasApp() {
		t.Error("expected ios and android to have an app")
	}
	if PlatformMobileWeb.HasApp() || PlatformDesktop.HasApp() {
		t.Error("expected mobile-web and desktop to have no app")
	}
}

func TestParseUserAgent(t *testing.T) {
	info := ParseUserAgent(androidUA)

	if info.Browser != "Chrome" {
		t.Errorf("expected Chrome, got %s", info.Browser)
	}
	if info.DeviceType != "mobile" {
		t.Errorf("expected mobile device, got %s", info.DeviceType)
	}
	if info.Platform != PlatformAndroid {
		t.Errorf("expected android platform, got %s", info.Platform)
	}

	desktop := ParseUserAgent(desktopUA)
	if desktop.DeviceType != "desktop" {
		t.Errorf("expected desktop device, got %s", desktop.DeviceType)
	}

	bot := ParseUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	if !bot.IsBot() {
		t.Errorf("expected crawler to be classed as bot, got %s", bot.DeviceType)
	}
	if info.IsBot() || desktop.IsBot() {
		t.Error("browsers must not be classed as bots")
	}
}
