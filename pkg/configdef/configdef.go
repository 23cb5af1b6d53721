package configdef

import (
	"errors"
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

// Sensor configures one source within a group. Zero values fall back to
// the backend's defaults.
type Sensor struct {
	Enabled    bool    `json:"enabled"`
	Width      int     `json:"width" validate:"gte=0 & lte=7680"`
	Height     int     `json:"height" validate:"gte=0 & lte=4320"`
	FPS        int     `json:"fps" validate:"gte=0 & lte=60"`
	Format     string  `json:"format"`
	DepthScale float64 `json:"depth_scale"`
	Bits       int     `json:"bits"`
}

type SourceGroup struct {
	Name       string `json:"name" validate:"empty=false"`
	Disabled   bool   `json:"disabled"`
	Correlated bool   `json:"correlated"`
	Color      Sensor `json:"color"`
	Depth      Sensor `json:"depth"`
	Infrared   Sensor `json:"infrared"`
}

// Fade is the depth band over which correlated colour fades out.
type Fade struct {
	StartMeters float64 `json:"start_meters"`
	EndMeters   float64 `json:"end_meters"`
}

type Values struct {
	Debug            bool          `json:"debug"`
	SnapshotLocation string        `json:"snapshot_location"`
	Fade             Fade          `json:"fade"`
	SourceGroups     []SourceGroup `json:"source_groups"`
}

// Enabled returns the groups that are not disabled, in config order.
func (v Values) Enabled() []SourceGroup {
	groups := []SourceGroup{}
	for _, g := range v.SourceGroups {
		if !g.Disabled {
			groups = append(groups, g)
		}
	}
	return groups
}

var colorFormats = map[string]bool{"": true, "bgra8": true, "rgba8": true, "gray8": true}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if hasDupGroupNames(v.SourceGroups) {
		return fmt.Errorf(validationErrorHeader, errors.New("source group names must be unique"))
	}

	if v.Fade != (Fade{}) && v.Fade.StartMeters >= v.Fade.EndMeters {
		return fmt.Errorf(validationErrorHeader, errors.New("fade start must be nearer than fade end"))
	}

	for _, g := range v.SourceGroups {
		if !colorFormats[g.Color.Format] {
			return fmt.Errorf(validationErrorHeader, fmt.Errorf("source group [%s] has unknown colour format %q", g.Name, g.Color.Format))
		}
		if g.Depth.DepthScale < 0 {
			return fmt.Errorf(validationErrorHeader, fmt.Errorf("source group [%s] depth scale must be positive", g.Name))
		}
		if b := g.Infrared.Bits; b != 0 && b != 8 && b != 16 {
			return fmt.Errorf(validationErrorHeader, fmt.Errorf("source group [%s] infrared bits must be 8 or 16", g.Name))
		}
	}
	return nil
}

// RunValidate checks the struct tags first, then the cross field rules.
func (v Values) RunValidate() error {
	if err := validate.Validate(v); err != nil {
		return err
	}
	return v.Validate()
}

func hasDupGroupNames(groups []SourceGroup) (hasDup bool) {
	hasDup = false
	if len(groups) == 0 {
		return
	}

	for gi, group := range groups {
		for i := gi; i < len(groups); i++ {
			if i == gi {
				continue
			}
			if group.Name == groups[i].Name {
				hasDup = true
				return
			}
		}
	}
	return
}
