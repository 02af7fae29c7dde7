package mapview

import (
	"go.uber.org/zap"

	"github.com/sells-group/traffic-cli/internal/density"
)

// Updater restyles existing overlays for a traffic tier. It never creates or
// removes overlays; placing them is the caller's job.
type Updater struct{}

// Apply sets style on every live handle and binds the tier label. It returns
// the label so callers can show it elsewhere.
func (Updater) Apply(tier density.Tier, style density.Style, handles ...Handle) string {
	label := tier.Label()
	for _, h := range handles {
		if !h.SetStyle(style) {
			zap.L().Debug("skipping removed overlay", zap.String("overlay", h.ID()))
			continue
		}
		h.BindLabel(label)
	}
	return label
}
