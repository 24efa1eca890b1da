// Package config loads cs01's own settings.
//
// Settings are layered: embedded defaults, then the user file
// ($XDG_CONFIG_HOME/cs01/config.toml or an explicit path), then CS01_*
// environment variables. Repository config files are not handled here;
// see pkg/ini.
package config
