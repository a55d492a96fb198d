package playerbar

import (
	"fmt"
	"math"

	"github.com/llehouerou/tune/internal/ui/styles"
)

// RenderVolume renders the volume indicator.
// Format: "vol  30%" or "mute" at zero.
func RenderVolume(level float64) string {
	s := styles.T().S().Muted
	pct := int(math.Round(level * 100))
	if pct <= 0 {
		return s.Render("mute")
	}
	return s.Render(fmt.Sprintf("vol %3d%%", pct))
}
