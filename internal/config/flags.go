package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagIgnorePivot = flag.Bool("ignore-pivot", false, "Record ignore-pivot on decoded scenes")
	flagNoKeyframes = flag.Bool("no-keyframes", false, "Skip animation tracks")
	flagCharset     = flag.String("charset", "", "Code page of chunk strings (windows-1252, cp437, iso-8859-1, raw)")
	flagFormat      = flag.String("format", "", "Output format (text, yaml)")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagIgnorePivot {
		cfg.Import.IgnorePivot = true
	}
	if *flagNoKeyframes {
		cfg.Import.Keyframes = false
	}
	if *flagCharset != "" {
		cfg.Import.Charset = *flagCharset
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
