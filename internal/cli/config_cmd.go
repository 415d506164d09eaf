// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/shuaib-registry/internal/config"
)

func newConfigCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the registry configuration",
		Long: `Show or change the registry configuration.

Keys use dot notation: ` + strings.Join(config.GetAllKeys(), ", "),
	}
	cmd.AddCommand(
		newConfigShowCommand(e),
		newConfigPathCommand(e),
		newConfigInitCommand(e),
		newConfigGetCommand(e),
		newConfigSetCommand(e),
	)
	return cmd
}

func newConfigShowCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (API key redacted)",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, e *env, _ []string) error {
			cfg, err := e.config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			text := cfg.String()
			return emit(cmd, e, json.RawMessage(text), func(w io.Writer) {
				fmt.Fprintln(w, text)
			})
		}),
	}
}

type pathsData struct {
	Config  string `json:"config"`
	Data    string `json:"data"`
	Exports string `json:"exports"`
	Log     string `json:"log"`
}

func newConfigPathCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config, data, export and log locations",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, e *env, _ []string) error {
			cfg, err := e.config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			path, err := e.configFile()
			if err != nil {
				return err
			}
			data := pathsData{Config: path, Data: cfg.DataDir(), Exports: cfg.ExportDir(), Log: cfg.LogFile()}
			return emit(cmd, e, data, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s\n", RenderConditional(LabelStyle, "config: "), data.Config)
				fmt.Fprintf(w, "%s %s\n", RenderConditional(LabelStyle, "data:   "), data.Data)
				fmt.Fprintf(w, "%s %s\n", RenderConditional(LabelStyle, "exports:"), data.Exports)
				fmt.Fprintf(w, "%s %s\n", RenderConditional(LabelStyle, "log:    "), data.Log)
			})
		}),
	}
}

func newConfigInitCommand(e *env) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: e.run(func(cmd *cobra.Command, e *env, _ []string) error {
			path, err := e.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", path)
			}
			if err := saveConfig(config.Default(), path); err != nil {
				return err
			}
			return emit(cmd, e, map[string]string{"path": path}, func(w io.Writer) {
				fmt.Fprintln(w, RenderConditional(SuccessStyle, "wrote "+path))
			})
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigGetCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one effective setting",
		Args:  cobra.ExactArgs(1),
		RunE: e.run(func(cmd *cobra.Command, e *env, args []string) error {
			cfg, err := e.config(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			if s, ok := value.(string); ok && s != "" && isSecretKey(args[0]) {
				value = "[REDACTED]"
			}
			return emit(cmd, e, map[string]interface{}{"key": args[0], "value": value}, func(w io.Writer) {
				fmt.Fprintln(w, value)
			})
		}),
	}
}

func newConfigSetCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting in the config file",
		Long: `Change one setting in the config file.

Only the file is read and written, so values coming from the environment
or .env are not copied into it.`,
		Args: cobra.ExactArgs(2),
		RunE: e.run(func(cmd *cobra.Command, e *env, args []string) error {
			path, err := e.configFile()
			if err != nil {
				return err
			}
			cfg, err := readConfigFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Migrate(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := saveConfig(cfg, path); err != nil {
				return err
			}
			shown := args[1]
			if isSecretKey(args[0]) {
				shown = "[REDACTED]"
			}
			return emit(cmd, e, map[string]string{"key": args[0], "value": shown, "path": path}, func(w io.Writer) {
				fmt.Fprintln(w, RenderConditional(SuccessStyle, args[0]+" = "+shown))
			})
		}),
	}
}

// configFile is the file config set and init write: --config, else the
// TOML file in the config directory.
func (e *env) configFile() (string, error) {
	if e.opts.ConfigPath != "" {
		return filepath.Abs(e.opts.ConfigPath)
	}
	return config.ConfigPathTOML()
}

func readConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	var err error
	if strings.HasSuffix(path, ".json") {
		err = config.LoadJSON(cfg, path)
	} else {
		err = config.LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func saveConfig(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	return strings.Contains(key, "api_key") || strings.Contains(key, "apikey")
}
