package keytip

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform names the activation modifier for the running OS.
type Platform struct {
	Name          string
	ActivationKey string // KeyAlt or KeyMeta
	Label         string // shown as the overlay prefix
}

var (
	// PlatformMac activates on Command.
	PlatformMac = Platform{Name: "mac", ActivationKey: KeyMeta, Label: "⌘"}
	// PlatformDefault activates on Alt.
	PlatformDefault = Platform{Name: "default", ActivationKey: KeyAlt, Label: "Alt"}
)

// PlatformFor maps a GOOS value to its platform.
func PlatformFor(goos string) Platform {
	switch goos {
	case "darwin", "ios":
		return PlatformMac
	default:
		return PlatformDefault
	}
}

// DetectPlatform probes the running OS. Call it once at startup.
func DetectPlatform() Platform {
	return PlatformFor(runtime.GOOS)
}

// ResolvePlatform honors an explicit "alt" or "meta" choice and falls back to
// DetectPlatform for "auto" or an empty value.
func ResolvePlatform(choice string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "", "auto":
		return DetectPlatform(), nil
	case "alt", "option":
		return PlatformDefault, nil
	case "meta", "cmd", "command", "super":
		return PlatformMac, nil
	default:
		return Platform{}, fmt.Errorf("unknown activation modifier %q (want auto, alt or meta)", choice)
	}
}
