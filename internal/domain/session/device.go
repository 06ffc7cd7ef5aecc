package session

import "strings"

const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"
)

// Device is a coarse description of a client, for display in session lists only.
type Device struct {
	Type string
	Name string
}

func ParseDevice(userAgent string) Device {
	ua := strings.ToLower(userAgent)
	if strings.TrimSpace(ua) == "" {
		return Device{Type: DeviceUnknown, Name: "Unknown device"}
	}

	return Device{
		Type: deviceType(ua),
		Name: browserName(ua) + " on " + osName(ua),
	}
}

func deviceType(ua string) string {
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return DeviceTablet
	case strings.Contains(ua, "mobi"), strings.Contains(ua, "iphone"), strings.Contains(ua, "ipod"):
		return DeviceMobile
	case strings.Contains(ua, "windows"), strings.Contains(ua, "macintosh"),
		strings.Contains(ua, "linux"), strings.Contains(ua, "cros"):
		return DeviceDesktop
	default:
		return DeviceUnknown
	}
}

// Order matters: Edge and Opera carry "chrome", Chrome carries "safari".
func browserName(ua string) string {
	switch {
	case strings.Contains(ua, "edg/"):
		return "Edge"
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "firefox/"), strings.Contains(ua, "fxios/"):
		return "Firefox"
	case strings.Contains(ua, "chrome/"), strings.Contains(ua, "crios/"):
		return "Chrome"
	case strings.Contains(ua, "safari/"):
		return "Safari"
	case strings.Contains(ua, "curl/"):
		return "curl"
	default:
		return "Unknown browser"
	}
}

func osName(ua string) string {
	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return "iOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac os x"), strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "cros"):
		return "ChromeOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	default:
		return "Unknown OS"
	}
}
