package cmd

import "github.com/alecthomas/kong"

// CLI is the root command tree parsed by kong.
type CLI struct {
	Version    kong.VersionFlag `help:"Print the version and exit"`
	ConfigFile string           `name:"config" help:"Path to a configuration file (.json, .yaml, .yml, .toml)" env:"BORSHGEN_CONFIG"`

	Log struct {
		Level  string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"BORSHGEN_LOG_LEVEL"`
		Format string `help:"Log output format" default:"text" enum:"text,json" env:"BORSHGEN_LOG_FORMAT"`
		File   string `help:"Also write logs to this file" env:"BORSHGEN_LOG_FILE"`
	} `embed:"" prefix:"log."`

	Generate Generate      `cmd:"" help:"Generate schema.ts from a schema file or Go package"`
	Check    Check         `cmd:"" help:"Fail if schema.ts is missing or out of date"`
	Config   ConfigCommand `cmd:"" help:"Configuration helpers"`
}
