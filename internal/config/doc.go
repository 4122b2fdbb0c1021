// Package config provides the configuration system for pigment.
//
// Configuration is layered, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← PIGMENT_TOOLS_LINE_WIDTH=3
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← pigment.toml or pigment.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: file (TOML, YAML) and environment loading into maps
//   - watcher: fsnotify live reload of the settings file
//
// # Basic Usage
//
//	cfg, err := config.Load("pigment.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.SessionOptions()
//	sess, err := session.New(cfg.Canvas.Width, cfg.Canvas.Height, opts...)
//
// Colors are hex strings ("#ff0000", "#ff000080"); operators use the
// composite mode names of the surface package.
package config
