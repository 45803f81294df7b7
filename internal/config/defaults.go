package config

const (
	defaultWorkDir         = "~/.local/share/videoauto/work"
	defaultLogDir          = "~/.local/share/videoauto/logs"
	defaultGapSeconds      = 0.5
	defaultStrategy        = "select"
	defaultVideoCodec      = "h264_nvenc"
	defaultPreset          = "p4"
	defaultOutputFrameRate = 30
	defaultCQ              = 23
	defaultBitrate         = "10M"
	defaultPixelFormat     = "yuv420p"
	defaultMaxMuxingQueue  = 1024
	defaultSampleRate      = 44100
	defaultLoudnormI       = -16.0
	defaultLoudnormTP      = -1.5
	defaultLoudnormLRA     = 11.0
	defaultVoice           = "zh-CN-XiaoxiaoNeural"
	defaultRate            = "+0%"
	defaultVolume          = "+0%"
	defaultDubWorkers      = 4
	defaultDubSampleRate   = 24000
	defaultSilenceDB       = -40.0
	defaultCacheRetention  = 30
	defaultPadSeconds      = 0.1
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
			CacheDir: defaultCacheDir(),
		},
		Cut: Cut{
			GapSeconds:      defaultGapSeconds,
			Strategy:        defaultStrategy,
			VideoCodec:      defaultVideoCodec,
			Preset:          defaultPreset,
			OutputFrameRate: defaultOutputFrameRate,
			CQ:              defaultCQ,
			Bitrate:         defaultBitrate,
			PixelFormat:     defaultPixelFormat,
			MaxMuxingQueue:  defaultMaxMuxingQueue,
		},
		Audio: Audio{
			SampleRate:  defaultSampleRate,
			LoudnormI:   defaultLoudnormI,
			LoudnormTP:  defaultLoudnormTP,
			LoudnormLRA: defaultLoudnormLRA,
		},
		Dub: Dub{
			Voice:              defaultVoice,
			Rate:               defaultRate,
			Volume:             defaultVolume,
			Workers:            defaultDubWorkers,
			SampleRate:         defaultDubSampleRate,
			SilenceThresholdDB: defaultSilenceDB,
			CacheEnabled:       true,
			CacheRetentionDays: defaultCacheRetention,
		},
		Pad: Pad{
			Seconds: defaultPadSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
