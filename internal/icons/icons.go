// Package icons is the client's icon registry.
//
// Icons are addressed by "collection:name" identifiers. Local SVG assets use
// the "svg" collection; the rest come from Iconify collections such as "mdi"
// and "ri". Every icon also carries a terminal glyph used by the CLI and TUI.
package icons

import (
	"fmt"
	"strings"

	"github.com/anzhiyu-c/anheyu-cli/internal/shared"
	"github.com/charmbracelet/lipgloss"
)

const fallbackGlyph = "•"

// Icon is a renderable icon reference.
type Icon struct {
	ID    string
	Glyph string
}

// Collection returns the part of the identifier before the colon.
func (i Icon) Collection() string {
	c, _, _ := strings.Cut(i.ID, ":")
	return c
}

// Name returns the part of the identifier after the colon.
func (i Icon) Name() string {
	_, n, ok := strings.Cut(i.ID, ":")
	if !ok {
		return i.ID
	}
	return n
}

// Render draws the glyph with style.
func (i Icon) Render(style lipgloss.Style) string {
	return style.Render(i.Glyph)
}

func (i Icon) String() string { return i.Glyph }

var glyphs = map[string]string{
	"svg:avatar-1":   "☺",
	"svg:avatar-2":   "☻",
	"svg:avatar-3":   "☺",
	"svg:avatar-4":   "☻",
	"svg:download":   "↓",
	"svg:size":       "⤢",
	"svg:time-line":  "◷",
	"svg:card":       "▭",
	"svg:bell":       "♪",
	"svg:cake":       "✿",
	"svg:antdv-logo": "◆",
	"svg:github":     "GH",
	"svg:google":     "G",
	"svg:qqchat":     "QQ",
	"svg:wechat":     "WX",
	"svg:dingding":   "DD",
	"svg:close":      "✕",
	"svg:arrow":      "➜",
	"svg:spinner":    "◌",

	"mdi:keyboard-esc":          "⎋",
	"ri:arrow-down-circle-fill": "⬇",
	"ri:download-line":          "↓",
	"ri:fire-fill":              "▲",
}

// Create builds the icon for id. Identifiers without a known glyph render as a bullet.
func Create(id string) Icon {
	g, ok := glyphs[id]
	if !ok {
		g = fallbackGlyph
	}
	return Icon{ID: id, Glyph: g}
}

// Local SVG icons.
var (
	SvgAvatarOneIcon   = Create("svg:avatar-1")
	SvgAvatarTwoIcon   = Create("svg:avatar-2")
	SvgAvatarThreeIcon = Create("svg:avatar-3")
	SvgAvatarFourIcon  = Create("svg:avatar-4")
	SvgDownloadIcon    = Create("svg:download")
	SvgCardIcon        = Create("svg:card")
	SvgBellIcon        = Create("svg:bell")
	SvgCakeIcon        = Create("svg:cake")
	SvgAntdvLogoIcon   = Create("svg:antdv-logo")
	SvgGithubIcon      = Create("svg:github")
	SvgGoogleIcon      = Create("svg:google")
	SvgQQChatIcon      = Create("svg:qqchat")
	SvgWeChatIcon      = Create("svg:wechat")
	SvgDingDingIcon    = Create("svg:dingding")
	SvgCloseIcon       = Create("svg:close")
	SvgArrowIcon       = Create("svg:arrow")
	SvgSpinnerIcon     = Create("svg:spinner")
	SvgSizeIcon        = Create("svg:size")
	SvgTimeLineIcon    = Create("svg:time-line")
)

// Iconify collection icons.
var (
	MdiKeyboardEsc      = Create("mdi:keyboard-esc")
	ArrowDownCircleFill = Create("ri:arrow-down-circle-fill")
	DownloadIcon        = Create("ri:download-line")
	FireIcon            = Create("ri:fire-fill")
)

// Registry is an ordered set of icons indexed by identifier.
type Registry struct {
	name  string
	order []Icon
	byID  map[string]Icon
}

// NewRegistry indexes icons under name. A repeated identifier keeps its first position.
func NewRegistry(name string, icons ...Icon) *Registry {
	r := &Registry{name: name, byID: make(map[string]Icon, len(icons))}
	for _, i := range icons {
		if _, ok := r.byID[i.ID]; ok {
			continue
		}
		r.byID[i.ID] = i
		r.order = append(r.order, i)
	}
	return r
}

func (r *Registry) Name() string { return r.name }

func (r *Registry) Len() int { return len(r.order) }

// Icons returns the icons in registration order.
func (r *Registry) Icons() []Icon {
	return append([]Icon(nil), r.order...)
}

// Lookup returns the icon registered under id.
func (r *Registry) Lookup(id string) (Icon, bool) {
	i, ok := r.byID[id]
	return i, ok
}

// SVG holds the local SVG icons.
var SVG = NewRegistry("svg",
	SvgAvatarOneIcon,
	SvgAvatarTwoIcon,
	SvgAvatarThreeIcon,
	SvgAvatarFourIcon,
	SvgDownloadIcon,
	SvgSizeIcon,
	SvgTimeLineIcon,
	SvgCardIcon,
	SvgBellIcon,
	SvgCakeIcon,
	SvgAntdvLogoIcon,
	SvgGithubIcon,
	SvgGoogleIcon,
	SvgQQChatIcon,
	SvgWeChatIcon,
	SvgDingDingIcon,
	SvgCloseIcon,
	SvgArrowIcon,
	SvgSpinnerIcon,
)

// Iconify holds the icons pulled from Iconify collections.
var Iconify = NewRegistry("iconify",
	MdiKeyboardEsc,
	ArrowDownCircleFill,
	DownloadIcon,
	FireIcon,
)

// Registries lists every registry in lookup order.
func Registries() []*Registry {
	return []*Registry{SVG, Iconify}
}

// Resolve finds id in any registry, or returns [shared.ErrUnknownIcon].
func Resolve(id string) (Icon, error) {
	for _, r := range Registries() {
		if i, ok := r.Lookup(id); ok {
			return i, nil
		}
	}
	return Icon{}, fmt.Errorf("%w: %s", shared.ErrUnknownIcon, id)
}

// Glyph returns the terminal glyph for id, or a bullet when id is not registered.
func Glyph(id string) string {
	i, err := Resolve(id)
	if err != nil {
		return fallbackGlyph
	}
	return i.Glyph
}
