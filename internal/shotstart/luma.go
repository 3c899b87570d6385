package shotstart

// Luma is a single grayscale frame plane. The pixel estimators only need
// intensity, so callers hand over luma planes rather than full images.
type Luma struct {
	Pix    []byte
	Width  int
	Height int
}

// Valid reports whether the plane dimensions match its pixel buffer.
func (l Luma) Valid() bool {
	return l.Width > 0 && l.Height > 0 && len(l.Pix) == l.Width*l.Height
}

func (l Luma) at(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= l.Width {
		x = l.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= l.Height {
		y = l.Height - 1
	}
	return float64(l.Pix[y*l.Width+x])
}

// boxBlur3 returns the plane smoothed with a 3x3 box filter. Blurring before
// differencing suppresses sensor noise that would otherwise read as motion.
func boxBlur3(l Luma) Luma {
	out := Luma{Pix: make([]byte, len(l.Pix)), Width: l.Width, Height: l.Height}
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			var sum float64
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					sum += l.at(x+dx, y+dy)
				}
			}
			out.Pix[y*l.Width+x] = byte(sum / 9)
		}
	}
	return out
}

// meanAbsDiff returns the mean absolute pixel difference between two planes
// of identical dimensions.
func meanAbsDiff(a, b Luma) float64 {
	if len(a.Pix) == 0 || len(a.Pix) != len(b.Pix) {
		return 0
	}
	var sum float64
	for i := range a.Pix {
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum / float64(len(a.Pix))
}
