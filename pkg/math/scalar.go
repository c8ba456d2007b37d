package math

import "github.com/chewxy/math32"

// GammaCorrect raises a channel value to 1/2.2.
func GammaCorrect(c float32) float32 {
	return math32.Pow(c, 1.0/2.2)
}
