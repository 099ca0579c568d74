// env.go - environment variable bindings
package conf

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BIRDPREP_PATHS_DATAROOT.
const EnvPrefix = "BIRDPREP"

// envKeys are the config keys that may be overridden from the environment.
var envKeys = []string{
	"debug",
	"paths.dataroot",
	"paths.csvrawdir",
	"paths.csvsplitdir",
	"paths.wavdir",
	"paths.chunkdir",
	"paths.spectrogramdir",
	"paths.labeldir",
	"labeller.chunkseconds",
	"chunker.chunkseconds",
	"chunker.hopseconds",
	"log.level",
	"log.file",
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		// BindEnv only errors without a key
		_ = v.BindEnv(key)
	}
}
