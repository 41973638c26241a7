package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// envFlags maps environment variables to the flags they default.
var envFlags = map[string]string{
	"CHARGESIM_SEED":   "seed",
	"CHARGESIM_CONFIG": "config",
	"CHARGESIM_LOG":    "log",
}

// applyEnvDefaults loads a .env file if present and fills flags the user
// did not pass from CHARGESIM_* variables. Explicit flags always win.
func applyEnvDefaults(cmd *cobra.Command) {
	_ = godotenv.Load()

	for env, name := range envFlags {
		value, ok := os.LookupEnv(env)
		if !ok || value == "" {
			continue
		}
		flag := cmd.Flags().Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		if err := cmd.Flags().Set(name, value); err != nil {
			logrus.Fatalf("Invalid %s=%q: %v", env, value, err)
		}
	}
}
