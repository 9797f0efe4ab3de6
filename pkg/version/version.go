package version

import (
	"fmt"
	"runtime"

	"github.com/carlmjohnson/versioninfo"
)

/* injected */

var release string

/* ** */

type Git struct {
	Commit string `json:"commit"`
	Dirty  bool   `json:"dirty"`
}

// Info describes the running binary and the wlan backend it was built with.
type Info struct {
	Release  string `json:"release"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
	Backend  string `json:"backend"`
	Git      Git    `json:"git"`
}

// Backend names the wlan binding compiled in for goos.
func Backend(goos string) string {
	switch goos {
	case "windows":
		return "wlanapi"
	case "linux":
		return "nl80211+iwlist"
	}
	return "none"
}

func Get() Info {
	r := release
	if r == "" {
		r = versioninfo.Version
	}
	if r == "" || r == "(devel)" {
		r = "unknown"
	}

	return Info{
		Release:  r,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Backend:  Backend(runtime.GOOS),
		Git: Git{
			Commit: versioninfo.Revision,
			Dirty:  versioninfo.DirtyBuild,
		},
	}
}

// UserAgent is the one-line form used in log headers.
func (i Info) UserAgent() string {
	s := fmt.Sprintf("winwifi/%s (%s; %s)", i.Release, i.Platform, i.Backend)
	if i.Git.Dirty {
		s += " dirty"
	}
	return s
}
