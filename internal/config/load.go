package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/log"
)

func load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	loadDefaults(&values)

	return values, nil
}

func loadDefaults(values *configdef.Values) {
	if values.Fade == (configdef.Fade{}) {
		values.Fade = defaultSettings[FADE].(configdef.Fade)
	}

	if len(values.SnapshotLocation) == 0 {
		if dir, err := userCacheDir(); err == nil {
			values.SnapshotLocation = filepath.Join(dir, appName, "snapshots")
		}
	}

	for i := range values.SourceGroups {
		loadDefaultSensorSettings(&values.SourceGroups[i])
	}
}

func loadDefaultSensorSettings(group *configdef.SourceGroup) {
	sensors := []struct {
		sensor   *configdef.Sensor
		defaults configdef.Sensor
	}{
		{&group.Color, defaultSettings[COLORSENSOR].(configdef.Sensor)},
		{&group.Depth, defaultSettings[DEPTHSENSOR].(configdef.Sensor)},
		{&group.Infrared, defaultSettings[INFRAREDSENSOR].(configdef.Sensor)},
	}

	for _, s := range sensors {
		if s.sensor.Width == 0 || s.sensor.Height == 0 {
			s.sensor.Width, s.sensor.Height = s.defaults.Width, s.defaults.Height
		}
		if s.sensor.FPS == 0 {
			s.sensor.FPS = s.defaults.FPS
		}
		if len(s.sensor.Format) == 0 {
			s.sensor.Format = s.defaults.Format
		}
		if s.sensor.DepthScale == 0 {
			s.sensor.DepthScale = s.defaults.DepthScale
		}
		if s.sensor.Bits == 0 {
			s.sensor.Bits = s.defaults.Bits
		}
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}
