package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	goversion "github.com/hashicorp/go-version"
	"go.uber.org/zap"
)

// Version is the deployed build version, overridden at build time via
// -ldflags "-X github.com/nulzo/hub-proxy/internal/version.Version=...".
var Version = "v0.1.0"

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// CheckForUpdates compares the running build against the latest published
// release. Failures are logged at debug and otherwise ignored; this must
// never delay or break startup.
func CheckForUpdates(logger *zap.Logger) {
	url := "https://api.github.com/repos/nulzo/hub-proxy/releases/latest"

	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		logger.Debug("release check failed", zap.Error(err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	current, err := goversion.NewVersion(Version)
	if err != nil {
		return
	}
	latest, err := goversion.NewVersion(release.TagName)
	if err != nil {
		return
	}

	if current.LessThan(latest) {
		logger.Warn(fmt.Sprintf("running outdated version %s, latest is %s", Version, release.TagName))
	}
}
