// Package main provides the spotscrape CLI: extract track, album,
// artist and playlist metadata from Spotify web pages, and download
// cover art and track previews.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spotscrape/internal/browser"
	"spotscrape/internal/client"
	"spotscrape/internal/config"
	"spotscrape/internal/download"
	"spotscrape/internal/model"
	"spotscrape/internal/output"
	"spotscrape/internal/spotify"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "spotscrape",
	Short: "Extract music metadata from Spotify web pages",
	Long: `spotscrape extracts structured track, album, artist and playlist
records from Spotify's public web pages, without API credentials.
It can also download cover art and 30-second track previews.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default spotscrape.yaml in . or ~/.config/spotscrape)")
	pf.StringP("output", "o", "", "output file (record commands) or directory (download commands)")
	pf.String("format", "json", "output format (json, yaml, table)")
	pf.Bool("pretty", false, "pretty-print JSON output")
	pf.String("cookie-file", "", "JSON file of cookies for authenticated features")
	pf.String("user-agent", "", "User-Agent header override")
	pf.Int("timeout", 30, "page fetch timeout in seconds")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")

	must(v.BindPFlag("format", pf.Lookup("format")))
	must(v.BindPFlag("pretty", pf.Lookup("pretty")))
	must(v.BindPFlag("cookie_file", pf.Lookup("cookie-file")))
	must(v.BindPFlag("user_agent", pf.Lookup("user-agent")))
	must(v.BindPFlag("timeout_seconds", pf.Lookup("timeout")))
	must(v.BindPFlag("log_level", pf.Lookup("log-level")))

	for _, entity := range []model.EntityType{model.EntityTrack, model.EntityAlbum, model.EntityArtist, model.EntityPlaylist} {
		rootCmd.AddCommand(newEntityCmd(entity))
	}
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newLyricsCmd())
}

func initConfig() {
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("spotscrape")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/spotscrape")
		}
	}

	v.SetEnvPrefix("SPOTSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Missing config files are fine; defaults and flags cover everything.
	_ = v.ReadInConfig()
}

// setup builds the shared stack every command needs.
func setup(cmd *cobra.Command) (*config.Settings, *zap.Logger, *client.Client, *browser.Client, error) {
	settings, err := config.Load(v)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		settings.OutputDir = out
	}

	logger, err := buildLogger(settings.LogLevel)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	opts, err := settings.BrowserOptions()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	b, err := browser.NewClient(opts)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return settings, logger, client.New(b, logger), b, nil
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func newEntityCmd(entity model.EntityType) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <url>", entity),
		Short: fmt.Sprintf("Extract a %s record from its page URL", entity),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, c, _, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			var rec model.Record
			switch entity {
			case model.EntityTrack:
				rec, err = c.Track(cmd.Context(), args[0])
			case model.EntityAlbum:
				rec, err = c.Album(cmd.Context(), args[0])
			case model.EntityArtist:
				rec, err = c.Artist(cmd.Context(), args[0])
			case model.EntityPlaylist:
				rec, err = c.Playlist(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			return writeRecord(cmd, settings, rec)
		},
	}
}

// writeRecord renders to stdout, or to the --output path when given.
func writeRecord(cmd *cobra.Command, settings *config.Settings, rec model.Record) error {
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return output.Render(cmd.OutOrStdout(), rec, settings.Format, settings.Pretty)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	return output.Render(f, rec, settings.Format, settings.Pretty)
}

func newDownloadCmd() *cobra.Command {
	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download media referenced by a record",
	}

	coverCmd := &cobra.Command{
		Use:   "cover <url>",
		Short: "Download the cover art of a track, album, artist or playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, c, b, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			mgr := download.NewManager(settings, c, b, logger, nil)
			path, err := mgr.Cover(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	previewCmd := &cobra.Command{
		Use:   "preview <url>",
		Short: "Download 30-second previews (track, or all tracks of an album/playlist)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, c, b, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			mgr := download.NewManager(settings, c, b, logger, nil)

			ref, err := spotifyClassify(args[0])
			if err != nil {
				return err
			}

			var paths []string
			switch ref {
			case model.EntityAlbum:
				paths, err = mgr.AlbumPreviews(cmd.Context(), args[0])
			case model.EntityPlaylist:
				paths, err = mgr.PlaylistPreviews(cmd.Context(), args[0])
			case model.EntityArtist:
				paths, err = mgr.ArtistPreviews(cmd.Context(), args[0])
			default:
				var path string
				path, err = mgr.Preview(cmd.Context(), args[0])
				paths = []string{path}
			}
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	downloadCmd.AddCommand(coverCmd, previewCmd)
	return downloadCmd
}

func newLyricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lyrics <url>",
		Short: "Fetch track lyrics (requires --cookie-file)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, c, _, err := setup(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			text, err := c.Lyrics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

// spotifyClassify resolves just the entity type, so the preview command
// can branch between single-track and bulk downloads.
func spotifyClassify(raw string) (model.EntityType, error) {
	ref, err := spotify.Classify(raw)
	if err != nil {
		return "", err
	}
	return ref.Type, nil
}

func must(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}
