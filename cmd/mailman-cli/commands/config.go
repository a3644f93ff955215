package commands

import (
	"mailman-admin/lib/configutil"
	"mailman-admin/lib/restyutil"
	"mailman-admin/lib/scrapers/mailman/admin"
	"mailman-admin/lib/scrapers/mailman/core"
	"mailman-admin/lib/serviceutil"
	"mailman-admin/lib/telemetry"
	"sort"
	"time"
)

type Config struct {
	BaseUrl string `json:"base_url"`
	// list name -> admin password
	Lists             map[string]string `json:"lists"`
	TimeoutSeconds    int               `json:"timeout_seconds"`
	RequestsPerSecond float64           `json:"requests_per_second"`
	UserAgent         string            `json:"user_agent"`
	CloudflareBypass  bool              `json:"cloudflare_bypass"`
	LogLevel          string            `json:"log_level"`
	DumpDir           string            `json:"dump_dir"`
}

func (c Config) ListNames() []string {
	names := make([]string, 0, len(c.Lists))
	for name := range c.Lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Config) ClientOptions() (core.ClientOptions, error) {
	opts := core.ClientOptions{
		BaseUrl:           c.BaseUrl,
		Lists:             c.Lists,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		UserAgent:         c.UserAgent,
		CloudflareBypass:  c.CloudflareBypass,
	}

	dir := c.DumpDir
	if *dumpDir != "" {
		dir = *dumpDir
	}
	if dir != "" {
		output, err := restyutil.NewFilesystemOutput(dir)
		if err != nil {
			return core.ClientOptions{}, err
		}
		opts.Instrument = output
	}
	return opts, nil
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	err = telemetry.InitSlog(cfg.LogLevel)
	if err != nil {
		serviceutil.Fatal("invalid log level", err)
	}
	return cfg
}

func createClient(cfg Config) admin.Client {
	opts, err := cfg.ClientOptions()
	if err != nil {
		serviceutil.Fatal("failed to setup http dumps", err)
	}
	client, err := admin.NewClient(opts)
	if err != nil {
		serviceutil.Fatal("failed to initialize mailman client", err)
	}
	return client
}

func newClient() admin.Client {
	return createClient(readConfig())
}
