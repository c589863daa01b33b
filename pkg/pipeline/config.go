package pipeline

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netplot/pkg/errors"
)

// LoadConfig reads plot options from a TOML file on top of [DefaultOptions].
// Durations are written as strings ("45m").
//
//	n = 50
//	type = "fruchterman"
//	cluster = "louvain"
//	halo = true
func LoadConfig(path string) (Options, error) {
	opts := DefaultOptions()
	if err := DecodeConfig(path, &opts); err != nil {
		return Options{}, err
	}
	opts.SetDefaults()
	return opts, nil
}

// DecodeConfig decodes the TOML file at path into opts, leaving fields the
// file does not mention untouched. Unknown keys are rejected.
func DecodeConfig(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	md, err := toml.Decode(string(data), opts)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidOption, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}
