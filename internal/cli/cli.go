package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graf/pkg/buildinfo"
	"github.com/matzehuels/graf/pkg/graph"
	pkgio "github.com/matzehuels/graf/pkg/io"
	"github.com/matzehuels/graf/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graf"

	// stdinArg reads the document from standard input.
	stdinArg = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose    bool
	configPath string
	headerPath string
	cfg        Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "graf reads, queries and renders GrAF annotation graphs",
		Long: `graf works with linguistic annotations in the Graph Annotation Format
(GrAF, ISO 24612). It parses GrAF XML documents together with the annotation
layers they depend on, prints summaries, selects annotations, re-renders
documents canonically, and draws node-link diagrams.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+defaultConfigHint()+")")
	root.PersistentFlags().StringVar(&c.headerPath, "header", "", "document header (.hdr) used to locate dependencies")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, loads the config
// file and installs the logging hooks.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if c.headerPath != "" {
		cfg.Header = c.headerPath
	}
	c.cfg = cfg

	hooks := &logHooks{logger: c.Logger}
	observability.SetParseHooks(hooks)
	observability.SetRenderHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) loadConfig() (Config, error) {
	if c.configPath != "" {
		return LoadConfig(c.configPath)
	}
	path, err := configPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	c.Logger.Debug("loading config", "path", path)
	return LoadConfig(path)
}

// =============================================================================
// Graph Loading
// =============================================================================

// parserOptions builds parser options from the active config. The document
// header is returned as well when one is configured.
func (c *CLI) parserOptions() ([]pkgio.Option, *pkgio.HeaderResolver, error) {
	opts := []pkgio.Option{pkgio.WithLogger(c.Logger)}
	if c.cfg.IDs == IDsUUID {
		opts = append(opts, pkgio.WithGraphOptions(graph.WithIDGenerator(graph.NewUUIDGenerator())))
	}
	if c.cfg.Header == "" {
		return opts, nil, nil
	}
	h, err := pkgio.LoadHeader(c.cfg.Header)
	if err != nil {
		return nil, nil, fmt.Errorf("load header: %w", err)
	}
	c.Logger.Debug("resolving dependencies through header", "path", c.cfg.Header, "types", h.Types())
	return append(opts, pkgio.WithResolver(h)), h, nil
}

// readGraph parses the document at path, or standard input for "-". With a
// document header configured, the primary text it names is loaded too.
func (c *CLI) readGraph(cmd *cobra.Command, path string) (*graph.Graph, error) {
	opts, hdr, err := c.parserOptions()
	if err != nil {
		return nil, err
	}
	prog := newProgress(c.Logger)
	var g *graph.Graph
	if path == stdinArg {
		g, err = pkgio.ReadXML(cmd.InOrStdin(), opts...)
	} else {
		g, err = pkgio.ImportXML(path, opts...)
	}
	if err != nil {
		return nil, err
	}
	if hdr != nil {
		loaded, err := hdr.LoadPrimaryData(g)
		if err != nil {
			return nil, err
		}
		if loaded {
			c.Logger.Debug("primary data loaded", "chars", utf8.RuneCountInString(g.Content))
		}
	}
	prog.done("Parsed " + g.Summary())
	return g, nil
}

// writeOptions builds render options from the active config.
func (c *CLI) writeOptions() []pkgio.WriteOption {
	if c.cfg.Indent == nil {
		return nil
	}
	return []pkgio.WriteOption{pkgio.WithIndent(indentString(*c.cfg.Indent))}
}

// writeOutput writes data to path, or to the command's stdout when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == stdinArg {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/graf/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// configPath returns the default config file location.
func configPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func defaultConfigHint() string {
	return "$XDG_CONFIG_HOME/" + appName + "/config.toml"
}
