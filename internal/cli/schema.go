package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cfkit/cfkit/pkg/schema"
)

// Display caps, matching what fits in a terminal without paging.
const (
	searchLimit     = 50
	listLimit       = 100
	suggestionLimit = 5
)

// schemaCommand creates the schema command group.
func (c *CLI) schemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Fetch, cache, and query the Cloudflare OpenAPI schema",
		Long: `Fetch, cache, and query the Cloudflare OpenAPI schema.

The schema is cached locally and refreshed when older than the
configured TTL (24 hours by default). All queries run against the
cached copy, so they work offline once the schema has been fetched.

Examples:
  cfkit schema search dns          # Find DNS-related endpoints
  cfkit schema get /zones          # Full spec for the /zones endpoint
  cfkit schema list /accounts      # All /accounts/* endpoints
  cfkit schema info                # Schema metadata and stats`,
	}

	cmd.AddCommand(c.schemaFetchCommand())
	cmd.AddCommand(c.schemaSearchCommand())
	cmd.AddCommand(c.schemaGetCommand())
	cmd.AddCommand(c.schemaListCommand())
	cmd.AddCommand(c.schemaInfoCommand())
	cmd.AddCommand(c.schemaBrowseCommand())

	return cmd
}

// loadSchema loads the schema through the configured cache backend,
// closing the backend before returning.
func (c *CLI) loadSchema(ctx context.Context, force bool) (*schema.Result, error) {
	store, backend, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	spinner := newSpinnerWithContext(ctx, "Loading Cloudflare API schema...")
	spinner.Start()

	res, err := store.Fetch(ctx, force)
	if err != nil {
		spinner.StopWithError("Schema fetch failed")
		return nil, err
	}
	spinner.Stop()

	if res.Stale {
		printWarning("Schema download failed, using stale cache from %s", res.Meta.CachedAt.Format("2006-01-02 15:04"))
	}
	return res, nil
}

// schemaFetchCommand creates the "schema fetch" subcommand.
func (c *CLI) schemaFetchCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download or update the schema (cached 24h)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)

			res, err := c.loadSchema(cmd.Context(), force)
			if err != nil {
				return err
			}

			if res.FromCache && !res.Stale {
				printInfo("Using cached schema (< %dh old)", c.cfg.Cache.TTLHours)
			} else if !res.FromCache {
				prog.done(fmt.Sprintf("Cached schema: %d endpoints", res.Doc.PathCount()))
			}

			printKeyValue("Schema version", res.Meta.Version)
			printKeyValue("Total endpoints", fmt.Sprintf("%d", res.Doc.PathCount()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "re-download even if the cache is fresh")
	return cmd
}

// schemaSearchCommand creates the "schema search" subcommand.
func (c *CLI) schemaSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search endpoints by keyword",
		Long: `Search endpoints by keyword.

The query is matched case-insensitively against each operation's path,
summary, description, and operationId.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			res, err := c.loadSchema(cmd.Context(), false)
			if err != nil {
				return err
			}

			results := res.Doc.Search(query)
			if len(results) == 0 {
				printInfo("No endpoints found matching %q", query)
				return nil
			}

			printSuccess("Found %d matching endpoints", len(results))
			printNewline()

			shown := results
			if len(shown) > searchLimit {
				shown = shown[:searchLimit]
			}
			for _, r := range shown {
				fmt.Printf("%s %s\n", StyleMethod.Render(fmt.Sprintf("%-7s", r.Method)), r.Path)
				if r.Summary != "" {
					fmt.Printf("        %s\n", StyleDim.Render(r.Summary))
				}
			}
			if len(results) > searchLimit {
				printDetail("... and %d more", len(results)-searchLimit)
			}
			return nil
		},
	}
}

// schemaGetCommand creates the "schema get" subcommand.
func (c *CLI) schemaGetCommand() *cobra.Command {
	var depth int
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <path>",
		Short: "Print the full spec for an endpoint path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			res, err := c.loadSchema(cmd.Context(), false)
			if err != nil {
				return err
			}

			ep, ok := res.Doc.Lookup(path)
			if !ok {
				printError("Endpoint not found: %s", path)
				if similar := res.Doc.Similar(path, suggestionLimit); len(similar) > 0 {
					printNewline()
					printInfo("Did you mean:")
					for _, p := range similar {
						printDetail("%s", p)
					}
				}
				return fmt.Errorf("endpoint not found: %s", path)
			}

			methods := any(ep.Methods)
			if !raw {
				methods = res.Doc.Expand(methods, depth)
			}
			return printJSON(map[string]any{
				"path":    ep.Path,
				"methods": methods,
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", schema.DefaultExpandDepth, "levels of $ref expansion")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the spec without expanding $refs")
	return cmd
}

// schemaListCommand creates the "schema list" subcommand.
func (c *CLI) schemaListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List all endpoint paths, optionally filtered by prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}

			res, err := c.loadSchema(cmd.Context(), false)
			if err != nil {
				return err
			}

			listing := res.Doc.List(prefix)
			if len(listing) == 0 {
				printInfo("No paths matching prefix %q", prefix)
				return nil
			}

			shown := listing
			if len(shown) > listLimit {
				shown = shown[:listLimit]
			}
			for _, pm := range shown {
				fmt.Printf("%s: %s\n", pm.Path, StyleDim.Render(strings.Join(pm.Methods, ", ")))
			}
			if len(listing) > listLimit {
				printDetail("... and %d more paths", len(listing)-listLimit)
			}
			return nil
		},
	}
}

// schemaInfoCommand creates the "schema info" subcommand.
func (c *CLI) schemaInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show schema metadata and statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.loadSchema(cmd.Context(), false)
			if err != nil {
				return err
			}
			stats := res.Doc.Stats()

			fmt.Println(StyleTitle.Render("Cloudflare API Schema"))
			printNewline()
			printKeyValue("Title", stats.Title)
			printKeyValue("Version", stats.Version)
			printKeyValue("Total endpoints", fmt.Sprintf("%d", stats.TotalEndpoints))
			if !res.Meta.CachedAt.IsZero() {
				printKeyValue("Cached at", res.Meta.CachedAt.Format("2006-01-02 15:04:05"))
			}

			printNewline()
			printInfo("Methods:")
			methods := make([]string, 0, len(stats.Methods))
			for m := range stats.Methods {
				methods = append(methods, m)
			}
			sort.Strings(methods)
			for _, m := range methods {
				printDetail("%s: %d", m, stats.Methods[m])
			}

			printNewline()
			printInfo("Top-level paths:")
			for _, p := range stats.TopLevelPaths {
				printDetail("%s", p)
			}
			return nil
		},
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
