package config

const (
	defaultDataDir        = "~/Desktop/amznas"
	defaultLogDir         = "~/.local/share/amznas/logs"
	defaultRecorderBinary = "Recorder.exe"
	defaultDeviceVersion  = "2"
	defaultSampleRate     = 120000
	defaultDisplayCutoff  = 50
	defaultDisplayOrder   = 3
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Recorder: Recorder{
			Binary:        defaultRecorderBinary,
			DeviceVersion: defaultDeviceVersion,
			SampleRate:    defaultSampleRate,
		},
		Display: Display{
			Cutoff: defaultDisplayCutoff,
			Order:  defaultDisplayOrder,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
