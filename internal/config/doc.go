// Package config resolves kasactl settings from defaults, an optional
// config file, the environment and command-line flags.
//
// # Configuration File Location
//
// The file is optional and never written by kasactl:
//   - Linux: $XDG_CONFIG_HOME/kasactl/config.yaml or $HOME/.config/kasactl/config.yaml
//   - macOS: $HOME/.config/kasactl/config.yaml
//   - Windows: %LOCALAPPDATA%\kasactl\config.yaml
//
// # Keys
//
//	target          broadcast address for discovery (255.255.255.255)
//	timeout         discovery listen window (3s)
//	alias_timeout   listen window per alias lookup attempt (1s)
//	detect_timeout  listen window of the auto-detect probe (2s)
//	attempts        alias lookup attempts (3)
//	port            device port for UDP and TCP (9999)
//	log_level       debug, info, warn or error (empty disables logging)
//	host, alias     default device selection
//
// # Precedence
//
// Flags override environment variables (KASACTL_TARGET, KASACTL_TIMEOUT,
// ...), which override the file, which overrides the defaults. The
// environment variables of the original Python tool, PYHS100_HOST,
// PYHS100_IP and PYHS100_NAME, are honored for host and alias.
//
// # Usage Example
//
//	v := viper.New()
//	cfg, err := config.Load(v)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Target, cfg.Timeout)
package config
