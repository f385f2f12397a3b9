package config

import "flag"

// Flags holds the command-line layer, the highest-precedence source.
type Flags struct {
	fs *flag.FlagSet

	ConfigPath string
	EnvFile    string

	subject     string
	credentials string
	folder      string
	limit       int
	endpoint    string
	rps         int
	logLevel    string
	logFormat   string
	logFile     string
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file with MAILVIEW_* settings")
	fs.StringVar(&f.subject, "subject", "", "mailbox to impersonate")
	fs.StringVar(&f.credentials, "credentials", "", "service-account key file")
	fs.StringVar(&f.folder, "folder", "", "INBOX, DRAFT or SPAM")
	fs.IntVar(&f.limit, "limit", 0, "number of messages to fetch")
	fs.StringVar(&f.endpoint, "api-endpoint", "", "Gmail API base URL override")
	fs.IntVar(&f.rps, "rps", 0, "max Gmail requests per second (0 disables pacing)")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", "", "text or json")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this file")
	return f
}

// Options returns where Load should look for the lower layers.
func (f *Flags) Options() Options {
	return Options{Path: f.ConfigPath, EnvFile: f.EnvFile}
}

// Apply overwrites cfg with every flag that was set explicitly.
func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "subject":
			cfg.Subject = f.subject
		case "credentials":
			cfg.Credentials = f.credentials
		case "folder":
			cfg.Folder = f.folder
		case "limit":
			cfg.Limit = f.limit
		case "api-endpoint":
			cfg.APIEndpoint = f.endpoint
		case "rps":
			cfg.RPS = f.rps
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-format":
			cfg.Log.Format = f.logFormat
		case "log-file":
			cfg.Log.File = f.logFile
		}
	})
}

// Resolve loads every layer and validates the result.
func (f *Flags) Resolve() (*Config, error) {
	cfg, err := Load(f.Options())
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
