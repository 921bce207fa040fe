package render

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Brightness ramp for colourless output, darkest first.
const asciiRamp = " .:-=+*#%@"

const ansiReset = "\x1b[0m"

type colorMode uint8

const (
	colorOff colorMode = iota
	colorANSI16
	colorANSI256
	colorTrue
)

func (m colorMode) String() string {
	switch m {
	case colorTrue:
		return "truecolor"
	case colorANSI256:
		return "256"
	case colorANSI16:
		return "16"
	default:
		return "ascii"
	}
}

// detectColorMode picks the richest mode the environment advertises.
func detectColorMode(getenv func(string) (string, bool), goos string) colorMode {
	if _, ok := getenv("NO_COLOR"); ok {
		return colorOff
	}
	term, _ := getenv("TERM")
	ct, _ := getenv("COLORTERM")
	term = strings.ToLower(term)
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return colorTrue
	case strings.Contains(term, "256color"):
		return colorANSI256
	case term == "dumb":
		return colorOff
	case term == "" && goos == "windows":
		return colorANSI16
	case term == "":
		return colorOff
	default:
		return colorANSI16
	}
}

func envColorMode() colorMode {
	return detectColorMode(os.LookupEnv, runtime.GOOS)
}

func brightnessChar(lum uint8) byte {
	return asciiRamp[int(lum)*(len(asciiRamp)-1)/255]
}

// luminance is ITU-R BT.601 in integer math.
func luminance(c RGB) uint8 {
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}

// colorSeq returns the escape that sets the foreground (or background) to c.
func colorSeq(mode colorMode, c RGB, background bool) string {
	switch mode {
	case colorTrue:
		layer := 38
		if background {
			layer = 48
		}
		return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, c.R, c.G, c.B)
	case colorANSI256:
		layer := 38
		if background {
			layer = 48
		}
		return fmt.Sprintf("\x1b[%d;5;%dm", layer, cube256(c))
	case colorANSI16:
		idx := nearest16(c)
		base := 30
		if background {
			base = 40
		}
		if idx >= 8 {
			return fmt.Sprintf("\x1b[%dm", base+60+idx-8)
		}
		return fmt.Sprintf("\x1b[%dm", base+idx)
	default:
		return ""
	}
}

// cube256 maps c into the 6x6x6 colour cube of the 256-colour palette.
func cube256(c RGB) int {
	return 16 + 36*(int(c.R)*5/255) + 6*(int(c.G)*5/255) + int(c.B)*5/255
}

func nearest16(c RGB) int {
	best, bestDist := 0, 1<<31-1
	for i, p := range ansi16Palette {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

var ansi16Palette = [16]RGB{
	{0, 0, 0},
	{205, 49, 49},
	{13, 188, 121},
	{229, 229, 16},
	{36, 114, 200},
	{188, 63, 188},
	{17, 168, 205},
	{229, 229, 229},
	{102, 102, 102},
	{241, 76, 76},
	{35, 209, 139},
	{245, 245, 67},
	{59, 142, 234},
	{214, 112, 214},
	{41, 184, 219},
	{255, 255, 255},
}
