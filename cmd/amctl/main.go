// Command amctl is a small command-line front end for the Apple Music API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	applemusic "github.com/musickit/applemusic-go"
)

// Config holds the I/O streams for amctl.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config wired to the process streams.
func DefaultConfig() *Config {
	return &Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// musicClient is the subset of *applemusic.Client used by amctl.
type musicClient interface {
	Search(ctx context.Context, term string, opts applemusic.SearchOptions) (*applemusic.SearchResponse, error)
	SearchHints(ctx context.Context, term string) (*applemusic.SearchHintsResponse, error)
	GetAlbum(ctx context.Context, id string) (*applemusic.Album, error)
	GetSong(ctx context.Context, id string) (*applemusic.Song, error)
	GetStorefronts(ctx context.Context) ([]applemusic.Storefront, error)
	GetLibrarySongs(ctx context.Context, page applemusic.Page) (*applemusic.DataResponse[applemusic.LibrarySong], error)
	GetLibraryAlbums(ctx context.Context, page applemusic.Page) (*applemusic.DataResponse[applemusic.LibraryAlbum], error)
	GetLibraryPlaylists(ctx context.Context, page applemusic.Page) (*applemusic.DataResponse[applemusic.LibraryPlaylist], error)
	AddToLibrary(ctx context.Context, kind applemusic.MediaType, ids []string) error
}

type globalFlags struct {
	configFile string
	storefront string
	logLevel   string
}

func run(args []string, cfg *Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(cfg)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cfg.Stderr, "amctl: %v\n", err)
		return err
	}
	return nil
}

func newRootCmd(cfg *Config) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "amctl",
		Short: "Query the Apple Music API",
		Long: `amctl searches the Apple Music catalog, fetches resources and
manages a user's library from the command line.

Configuration is read from ~/.config/amctl/config.yaml, AMCTL_* environment
variables and a .env file in the working directory. Either developer_token
or team_id, key_id and private_key_path must be set.`,
		Version:       applemusic.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default ~/.config/amctl/config.yaml)")
	root.PersistentFlags().StringVarP(&flags.storefront, "storefront", "s", "", "storefront code, e.g. us or gb")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	// withClient loads settings and builds a client for a subcommand.
	withClient := func(fn func(ctx context.Context, client musicClient, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			settings, logger, err := flags.load(cfg)
			if err != nil {
				return err
			}
			clientCfg, err := settings.clientConfig(logger)
			if err != nil {
				return err
			}
			client, err := applemusic.New(clientCfg)
			if err != nil {
				return err
			}
			return fn(cmd.Context(), client, args)
		}
	}

	var ttl time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a developer token from the configured private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := flags.load(cfg)
			if err != nil {
				return err
			}
			return runToken(settings, ttl, time.Now(), cfg)
		},
	}
	tokenCmd.Flags().DurationVar(&ttl, "ttl", applemusic.DefaultTokenTTL, "token lifetime")

	var (
		types  string
		limit  int
		offset int
	)
	searchCmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: withClient(func(ctx context.Context, client musicClient, args []string) error {
			return runSearch(ctx, client, cfg, strings.Join(args, " "), types, limit, offset)
		}),
	}
	searchCmd.Flags().StringVarP(&types, "types", "t", "", "comma-separated media types (default songs,albums,artists)")
	searchCmd.Flags().IntVarP(&limit, "limit", "l", 0, "results per type, up to 25")
	searchCmd.Flags().IntVar(&offset, "offset", 0, "result offset")

	hintsCmd := &cobra.Command{
		Use:   "hints <term>",
		Short: "Show search completions for a partial term",
		Args:  cobra.MinimumNArgs(1),
		RunE: withClient(func(ctx context.Context, client musicClient, args []string) error {
			return runHints(ctx, client, cfg, strings.Join(args, " "))
		}),
	}

	storefrontsCmd := &cobra.Command{
		Use:   "storefronts",
		Short: "List storefronts",
		Args:  cobra.NoArgs,
		RunE: withClient(func(ctx context.Context, client musicClient, args []string) error {
			return runStorefronts(ctx, client, cfg)
		}),
	}

	albumCmd := &cobra.Command{
		Use:   "album <id>",
		Short: "Fetch a catalog album",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, client musicClient, args []string) error {
			return runAlbum(ctx, client, cfg, args[0])
		}),
	}

	songCmd := &cobra.Command{
		Use:   "song <id>",
		Short: "Fetch a catalog song",
		Args:  cobra.ExactArgs(1),
		RunE: withClient(func(ctx context.Context, client musicClient, args []string) error {
			return runSong(ctx, client, cfg, args[0])
		}),
	}

	var page applemusic.Page
	libraryCmd := &cobra.Command{
		Use:       "library <songs|albums|playlists>",
		Short:     "List the user's library (needs a user token)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"songs", "albums", "playlists"},
		RunE: withClient(func(ctx context.Context, client musicClient, args []string) error {
			return runLibrary(ctx, client, cfg, args[0], page)
		}),
	}
	libraryCmd.Flags().IntVarP(&page.Limit, "limit", "l", 0, "page size, up to 100")
	libraryCmd.Flags().IntVar(&page.Offset, "offset", 0, "page offset")

	addCmd := &cobra.Command{
		Use:   "add <type> <id>...",
		Short: "Add catalog resources to the user's library",
		Args:  cobra.MinimumNArgs(2),
		RunE: withClient(func(ctx context.Context, client musicClient, args []string) error {
			return runAdd(ctx, client, cfg, args[0], args[1:])
		}),
	}

	root.AddCommand(tokenCmd, searchCmd, hintsCmd, storefrontsCmd, albumCmd, songCmd, libraryCmd, addCmd)
	return root
}

func (f *globalFlags) load(cfg *Config) (*Settings, zerolog.Logger, error) {
	settings, err := loadSettings(f.configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if f.storefront != "" {
		settings.Storefront = f.storefront
	}
	if f.logLevel != "" {
		settings.LogLevel = f.logLevel
	}
	return settings, setupLogger(cfg.Stderr, settings.LogLevel), nil
}

// TokenOutput is the JSON printed by the token command.
type TokenOutput struct {
	Token     string `json:"token"`
	IssuedAt  string `json:"issuedAt"`
	ExpiresAt string `json:"expiresAt"`
}

func runToken(settings *Settings, ttl time.Duration, now time.Time, cfg *Config) error {
	if !settings.usesJWT() {
		return fmt.Errorf("token: team_id, key_id and private_key_path are required")
	}
	pemBytes, err := settings.privateKey()
	if err != nil {
		return err
	}
	tok, err := applemusic.SignDeveloperToken(settings.TeamID, settings.KeyID, pemBytes, now, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	return writeJSON(cfg.Stdout, TokenOutput{
		Token:     tok.Value,
		IssuedAt:  tok.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt: tok.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func runSearch(ctx context.Context, client musicClient, cfg *Config, term, types string, limit, offset int) error {
	opts := applemusic.SearchOptions{Limit: limit, Offset: offset}
	if types != "" {
		for _, name := range strings.Split(types, ",") {
			mt, err := applemusic.ParseMediaType(name)
			if err != nil {
				return err
			}
			opts.Types = append(opts.Types, mt)
		}
	}

	res, err := client.Search(ctx, term, opts)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return writeJSON(cfg.Stdout, res.Results)
}

func runHints(ctx context.Context, client musicClient, cfg *Config, term string) error {
	res, err := client.SearchHints(ctx, term)
	if err != nil {
		return fmt.Errorf("hints: %w", err)
	}
	return writeJSON(cfg.Stdout, res.Results.Terms)
}

func runStorefronts(ctx context.Context, client musicClient, cfg *Config) error {
	storefronts, err := client.GetStorefronts(ctx)
	if err != nil {
		return fmt.Errorf("storefronts: %w", err)
	}
	return writeJSON(cfg.Stdout, storefronts)
}

func runAlbum(ctx context.Context, client musicClient, cfg *Config, id string) error {
	album, err := client.GetAlbum(ctx, id)
	if err != nil {
		return fmt.Errorf("album: %w", err)
	}
	return writeJSON(cfg.Stdout, album)
}

func runSong(ctx context.Context, client musicClient, cfg *Config, id string) error {
	song, err := client.GetSong(ctx, id)
	if err != nil {
		return fmt.Errorf("song: %w", err)
	}
	return writeJSON(cfg.Stdout, song)
}

func runLibrary(ctx context.Context, client musicClient, cfg *Config, kind string, page applemusic.Page) error {
	var (
		out any
		err error
	)
	switch kind {
	case "songs":
		out, err = client.GetLibrarySongs(ctx, page)
	case "albums":
		out, err = client.GetLibraryAlbums(ctx, page)
	case "playlists":
		out, err = client.GetLibraryPlaylists(ctx, page)
	default:
		return fmt.Errorf("library: unknown collection %q", kind)
	}
	if err != nil {
		return fmt.Errorf("library: %w", err)
	}
	return writeJSON(cfg.Stdout, out)
}

func runAdd(ctx context.Context, client musicClient, cfg *Config, kind string, ids []string) error {
	mt, err := applemusic.ParseMediaType(kind)
	if err != nil {
		return err
	}
	if err := client.AddToLibrary(ctx, mt, ids); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return writeJSON(cfg.Stdout, map[string]bool{"success": true})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
