package cli

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage inbox configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand(c))
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Sources are applied in order: defaults, the global config file, the
--config file, then the INBOX_OWNER and INBOX_REMOTE_DSN environment
variables. Passwords in the remote DSN are masked.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			out, err := c.ShowConfigUseCase().Execute(cmd.Context(), usecase.ShowConfigInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			_, _ = fmt.Fprintln(w, "[Loaded from]")
			if out.GlobalConfig.Exists {
				_, _ = fmt.Fprintf(w, "- %s\n", out.GlobalConfig.Path)
			} else {
				_, _ = fmt.Fprintf(w, "- %s (not found)\n", out.GlobalConfig.Path)
			}
			if c.Config.ConfigPath != "" {
				_, _ = fmt.Fprintf(w, "- %s\n", c.Config.ConfigPath)
			}
			_, _ = fmt.Fprintln(w)

			_, _ = fmt.Fprintln(w, "[Effective Config]")
			return formatEffectiveConfig(w, out.EffectiveConfig)
		},
	}
}

// formatEffectiveConfig formats the effective config in TOML format.
// Uses reflection so new sections and keys show up without changes here.
func formatEffectiveConfig(w io.Writer, cfg *domain.Config) error {
	output := make(map[string]any)

	cfgVal := reflect.ValueOf(cfg).Elem()
	cfgType := cfgVal.Type()
	for i := 0; i < cfgVal.NumField(); i++ {
		sectionName := tomlName(cfgType.Field(i))
		if sectionName == "" {
			continue
		}
		section := cfgVal.Field(i)
		if section.Kind() != reflect.Struct {
			continue
		}

		values := make(map[string]any)
		for j := 0; j < section.NumField(); j++ {
			key := tomlName(section.Type().Field(j))
			if key == "" || section.Field(j).IsZero() {
				continue
			}
			values[key] = displayValue(sectionName, key, section.Field(j).Interface())
		}
		output[sectionName] = values
	}

	if err := toml.NewEncoder(w).Encode(output); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func tomlName(field reflect.StructField) string {
	tag := field.Tag.Get("toml")
	if tag == "" || tag == "-" {
		return ""
	}
	return strings.Split(tag, ",")[0]
}

func displayValue(section, key string, v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	if section == "remote" && key == "dsn" {
		return redactDSN(v.(string))
	}
	return v
}

// redactDSN masks the password of a URL-style DSN.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	return u.Redacted()
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a commented configuration file template with default values to stdout.

It does not read existing configuration files, so it works even if they are broken.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			out, err := c.ShowConfigTemplateUseCase().Execute(cmd.Context(), usecase.ShowConfigTemplateInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Template)
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate the global configuration file",
		Long: `Generate the global configuration file at ~/.config/inbox/config.toml
(or $XDG_CONFIG_HOME/inbox/config.toml).

Error conditions:
- Target file already exists: error`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			cfg := domain.NewDefaultConfig()
			cfg.Identity.Owner = owner

			out, err := c.InitConfigUseCase().Execute(cmd.Context(), usecase.InitConfigInput{Config: cfg})
			if err != nil {
				if errors.Is(err, domain.ErrConfigExists) {
					return fmt.Errorf("%w (edit it or remove it first)", err)
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID written into [identity]")

	return cmd
}
