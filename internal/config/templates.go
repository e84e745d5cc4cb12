package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# hedge-gym Configuration

[env]
# Cost per unit traded (linear term of the cost model)
tick_size = 0.1
# Absolute position cap, in units of the underlying
option_size = 100
# Episode length in steps
horizon = 100
# Initial underlying price; also the option strike
s0 = 100.0
# Volatility of the simulated price walk
sigma = 0.02
# Risk-aversion coefficient of the mean-variance reward
kappa = 0.0001
# Weight of the concavity-violation penalty
penalty_weight = 1.0
# Cap on a single triple's penalty
max_penalty = 100.0
# Simulated price bounds
min_price = 10.0
max_price = 500.0
# Rescales raw actions in [-1, 1] to position deltas
action_normalizer = 100.0

[run]
# Number of episodes to run
episodes = 1
# Random seed (per-episode seeds derive from this)
seed = 42
# Concurrent workers, one episode per worker
workers = 1
# Built-in policy: zero, random, delta
policy = "delta"

[output]
# Directory for rendered episode series (CSV)
# plots_dir = "~/.config/hedge-gym/plots"
# Episode database path
# database = "~/.config/hedge-gym/episodes.db"

[log]
level = "info"
console = true
file = true
`

// createTemplateConfig writes a default config.toml so the first run leaves
// an editable template behind.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}
