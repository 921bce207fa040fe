package render

// Distortion strength of the radial lens term.
const lensStrength = 2.5

// Vignette edge width in uv units.
const vignetteEdge = 0.18

// Distort writes src into dst through a barrel lens scaled by d and darkens
// the edges with a vignette. dst must not alias src.
func Distort(dst, src *Frame, d float64) {
	dst.Resize(src.Width, src.Height)
	w, h := src.Width, src.Height
	if w == 0 || h == 0 {
		return
	}
	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / float64(h)
		vy := smoothstep(0, vignetteEdge, v) * smoothstep(1, 1-vignetteEdge, v)
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w)
			du, dv := u-0.5, v-0.5
			k := 1 + d*(du*du+dv*dv)*lensStrength
			su := clamp01(0.5 + du*k)
			sv := clamp01(0.5 + dv*k)
			sx := min(int(su*float64(w)), w-1)
			sy := min(int(sv*float64(h)), h-1)

			vig := smoothstep(0, vignetteEdge, u) * smoothstep(1, 1-vignetteEdge, u) * vy
			vig *= vig

			c := src.At(sx, sy)
			dst.Set(x, y, RGB{
				uint8(float64(c.R) * vig),
				uint8(float64(c.G) * vig),
				uint8(float64(c.B) * vig),
			})
		}
	}
}
