package config

import "github.com/tauraamui/dragoneye/pkg/configdef"

type defaultSettingKey uint

const (
	FADE           defaultSettingKey = 0x0
	SOURCEGROUPS   defaultSettingKey = 0x1
	COLORSENSOR    defaultSettingKey = 0x2
	DEPTHSENSOR    defaultSettingKey = 0x3
	INFRAREDSENSOR defaultSettingKey = 0x4
)

var defaultSettings = map[defaultSettingKey]interface{}{
	FADE: configdef.Fade{StartMeters: 0.84, EndMeters: 0.85},
	SOURCEGROUPS: []configdef.SourceGroup{
		{
			Name:       "synthetic-kinect",
			Correlated: true,
			Color:      configdef.Sensor{Enabled: true, Width: 1920, Height: 1080, FPS: 30, Format: "bgra8"},
			Depth:      configdef.Sensor{Enabled: true, Width: 512, Height: 424, FPS: 30, DepthScale: 0.001},
			Infrared:   configdef.Sensor{Enabled: true, Width: 512, Height: 424, FPS: 30, Bits: 16},
		},
		{
			Name:  "synthetic-webcam",
			Color: configdef.Sensor{Enabled: true, Width: 1280, Height: 720, FPS: 30, Format: "rgba8"},
		},
	},
	COLORSENSOR:    configdef.Sensor{Width: 1280, Height: 720, FPS: 30, Format: "bgra8"},
	DEPTHSENSOR:    configdef.Sensor{Width: 512, Height: 424, FPS: 30, DepthScale: 0.001},
	INFRAREDSENSOR: configdef.Sensor{Width: 512, Height: 424, FPS: 30, Bits: 16},
}
