package systems

import (
	"fmt"
	"image/color"
	"math"

	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/config"
)

// ColorFromIntensity derives a yellow shade from a light's intensity.
func ColorFromIntensity(intensity float64) color.RGBA {
	base := clampByte(intensity * 2)
	return color.RGBA{R: base, G: base, B: 0, A: 255}
}

// NewLights builds the light registry from configuration.
// Intensities must be positive and positions unique.
func NewLights(cfgs []config.LightConfig) ([]components.Light, error) {
	if len(cfgs) == 0 {
		return nil, config.ErrNoLights
	}

	lights := make([]components.Light, 0, len(cfgs))
	seen := make(map[components.LightKey]struct{}, len(cfgs))
	for i, c := range cfgs {
		if !(c.Intensity > 0) || math.IsInf(c.Intensity, 1) {
			return nil, fmt.Errorf("light %d: intensity %g: %w", i, c.Intensity, config.ErrInvalidLight)
		}
		key := components.LightKey{X: c.X, Y: c.Y}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("light %d at (%g, %g): %w", i, c.X, c.Y, config.ErrDuplicateLight)
		}
		seen[key] = struct{}{}

		lights = append(lights, components.Light{
			Key:       key,
			Index:     i,
			Intensity: c.Intensity,
			Color:     ColorFromIntensity(c.Intensity),
		})
	}
	return lights, nil
}

// EnergyColor maps energy to the organism's display color:
// red when exhausted, green at 100 and above.
func EnergyColor(energy float64) color.RGBA {
	g := clampByte(energy * 2.55)
	return color.RGBA{R: 255 - g, G: g, B: 0, A: 255}
}
