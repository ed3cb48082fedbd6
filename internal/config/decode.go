package config

import (
	"github.com/go-viper/mapstructure/v2"
)

// DecoderConfig returns the mapstructure settings used to decode config into
// out: koanf tags, weak typing for env strings and "20s"-style durations.
func DecoderConfig(out any) *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "koanf",
	}
}
