package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/tessro/groove/internal/config"
)

type volumeSyncer interface {
	SyncVolume(v float64)
}

// volumeFollower applies [player] volume edits made while groove runs, for
// example by `groove config set player.volume` in another terminal.
type volumeFollower struct {
	target volumeSyncer
	last   float64
	logger *log.Logger
}

// apply syncs the volume only when the file's value changed, so unrelated
// edits leave the user's current level alone.
func (f *volumeFollower) apply(c *config.Config) {
	if c.Player.Volume == f.last {
		return
	}
	f.last = c.Player.Volume
	f.logger.Debug("config volume changed", "volume", f.last)
	f.target.SyncVolume(f.last)
}

func followConfigVolume(ctx context.Context, target volumeSyncer) {
	path := cfgFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return
	}

	f := &volumeFollower{target: target, last: cfg.Player.Volume, logger: logger}
	go func() {
		if err := config.Watch(ctx, path, f.apply); err != nil {
			logger.Warn("not following config changes", "err", err)
		}
	}()
}
