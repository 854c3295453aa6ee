package cli

import "github.com/viant/portal"

// Options are the global command line options shared by every command.
type Options struct {
	Config string               `short:"c" long:"config" description:"client options file (YAML, path or afs URL)"`
	Output string               `short:"o" long:"output" description:"output format" choice:"json" choice:"yaml" default:"json"`
	Client portal.ClientOptions `group:"client"`
}

// clientOptions returns the effective client options: the config file when set,
// overridden by any values passed on the command line.
func (o *Options) clientOptions(loaded *portal.ClientOptions) *portal.ClientOptions {
	if loaded == nil {
		return &o.Client
	}
	flagged := &o.Client
	if flagged.BaseURL != "" {
		loaded.BaseURL = flagged.BaseURL
	}
	if flagged.Session.URL != "" {
		loaded.Session.URL = flagged.Session.URL
	}
	loaded.Session.Ephemeral = loaded.Session.Ephemeral || flagged.Session.Ephemeral
	loaded.Refresh.Independent = loaded.Refresh.Independent || flagged.Refresh.Independent
	if flagged.Log.Level != "" {
		loaded.Log.Level = flagged.Log.Level
	}
	return loaded
}
