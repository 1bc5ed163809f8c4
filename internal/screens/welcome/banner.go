package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/stemlab/exploratorium/internal/ui/theme"
)

const bannerArt = `
 ███████╗████████╗███████╗███╗   ███╗
 ██╔════╝╚══██╔══╝██╔════╝████╗ ████║
 ███████╗   ██║   █████╗  ██╔████╔██║
 ╚════██║   ██║   ██╔══╝  ██║╚██╔╝██║
 ███████║   ██║   ███████╗██║ ╚═╝ ██║
 ╚══════╝   ╚═╝   ╚══════╝╚═╝     ╚═╝
       E X P L O R A T O R I U M`

const bannerCompact = "S T E M   E X P L O R A T O R I U M"

// RenderBanner returns the banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
