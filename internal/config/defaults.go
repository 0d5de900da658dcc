package config

const (
	defaultSpoolDir          = "~/.local/share/fixify/spool"
	defaultLogDir            = "~/.local/share/fixify/logs"
	defaultAnalysisBaseURL   = "http://127.0.0.1:3000/api"
	defaultUploadTimeout     = 120
	defaultProbeTimeout      = 10
	defaultVideoFieldName    = "video"
	defaultVideoFileName     = "video.mp4"
	defaultFacing            = "auto"
	defaultCaptureWidth      = 720
	defaultCaptureHeight     = 1280
	defaultCaptureFramerate  = 30
	defaultCanonicalType     = "video/mp4"
	defaultCaptureMaxSeconds = 120
	defaultSignInDelayMillis = 1500
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// defaultContainers is the descending container/codec preference list used
// when negotiating the recording format. The first muxer ffmpeg supports
// wins; mp4 acts as the platform fallback.
func defaultContainers() []string {
	return []string{"webm", "matroska", "mp4"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SpoolDir: defaultSpoolDir,
			LogDir:   defaultLogDir,
		},
		Analysis: Analysis{
			BaseURL:        defaultAnalysisBaseURL,
			UploadTimeout:  defaultUploadTimeout,
			ProbeTimeout:   defaultProbeTimeout,
			VideoFieldName: defaultVideoFieldName,
			VideoFileName:  defaultVideoFileName,
		},
		Capture: Capture{
			PreferredFacing: defaultFacing,
			Width:           defaultCaptureWidth,
			Height:          defaultCaptureHeight,
			Framerate:       defaultCaptureFramerate,
			Containers:      defaultContainers(),
			CanonicalType:   defaultCanonicalType,
			MaxSeconds:      defaultCaptureMaxSeconds,
		},
		Auth: Auth{
			SignInDelayMillis: defaultSignInDelayMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
