package depth

// noiseFloor is the raw-value cutoff below which a pixel is treated as
// empty during dilation (10/255 on 8-bit sources).
const noiseFloor = 10.0 / 255.0

// Expand runs `radius` dilation passes over the raster, closing small
// holes and seams in noisy depth maps before mesh sampling. Each pass
// pushes the depth of every above-floor pixel into any of its 8
// neighbours that currently holds a lower value. Passes read the
// previous pass's output and write a fresh buffer, so a pass has no
// scan-direction bias. Values never decrease.
func (r *Raster) Expand(radius int) {
	if radius <= 0 {
		return
	}

	src := r.Values
	dst := make([]float64, len(src))

	for pass := 0; pass < radius; pass++ {
		copy(dst, src)

		for y := 1; y < r.Height-1; y++ {
			for x := 1; x < r.Width-1; x++ {
				d := src[y*r.Width+x]
				if d < noiseFloor {
					continue
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						ni := (y+dy)*r.Width + (x + dx)
						if dst[ni] < d {
							dst[ni] = d
						}
					}
				}
			}
		}

		src, dst = dst, src
	}

	r.Values = src
}
