package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"depot/internal/app"
	"depot/internal/config"
	"depot/internal/database"
	"depot/internal/database/migrations"
	"depot/internal/depot"
	"depot/internal/encryption"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a DepotApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Upload", "Restore").
func newApp(operation string) (*app.DepotApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewDepotApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// currentUser returns the acting user identity from --user or DEPOT_USER.
// Credential validation happens upstream of this tool; the identity here is
// taken as already verified.
func currentUser(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		user = os.Getenv("DEPOT_USER")
	}
	if user == "" {
		return "", fmt.Errorf("no user identity: pass --user or set DEPOT_USER")
	}
	return user, nil
}

// promptPassphrase reads a passphrase from the terminal without echo.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

// unlockApp prompts for a passphrase and unlocks the blob store when
// encryption is enabled. A no-op otherwise.
func unlockApp(a *app.DepotApp) error {
	if !a.EncryptionEnabled() {
		return nil
	}
	pass, err := promptPassphrase("Passphrase: ")
	if err != nil {
		return err
	}
	return a.Unlock(pass)
}

var rootCmd = &cobra.Command{
	Use:   "depot",
	Short: "Versioned file storage with deduplication and sharing",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Blob Store: %s (%s)\n", cfg.Blob.Type, cfg.Blob.Name)
		fmt.Printf("Encryption: %v\n", cfg.Encryption.Enabled)
		return nil
	},
}

// migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		if cfg.Database.DataDir == "" {
			return fmt.Errorf("data_dir not configured")
		}
		if err := os.MkdirAll(cfg.Database.DataDir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}

		db, err := database.OpenConnection(cfg.Database.DataDir + "/depot.db")
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}

		fmt.Println("Database is up to date.")
		return nil
	},
}

// keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("getting defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return fmt.Errorf("creating encryptor: %w", err)
		}
		if enc.IsConfigured() {
			return fmt.Errorf("key material already exists at %s", cfg.Encryption.PrivateKeyPath)
		}

		pass, err := promptPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassphrase("Confirm passphrase: ")
		if err != nil {
			return err
		}
		if pass != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := enc.Setup(pass); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Printf("Keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

// upload command
var uploadCmd = &cobra.Command{
	Use:   "upload PATH",
	Short: "Upload a file (or a new version of it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		virtualPath, _ := cmd.Flags().GetString("path")
		description, _ := cmd.Flags().GetString("desc")

		a, err := newApp("Upload")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := unlockApp(a); err != nil {
			return err
		}

		file, err := a.Upload(user, args[0], virtualPath, description)
		if err != nil {
			a.SetError()
			return fmt.Errorf("upload failed: %w", err)
		}

		fmt.Printf("%s  %s  v%d  %s\n", file.ID, file.OriginalName, file.CurrentVersion, file.CurrentHash)
		return nil
	},
}

// ls command
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List your files",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("List")
		if err != nil {
			return err
		}
		defer a.Close()

		files, err := a.List(user)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println("No files.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s  %s\n", f.ID, f.OriginalName)
		}
		return nil
	},
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info FILE_ID",
	Short: "View file details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("Info")
		if err != nil {
			return err
		}
		defer a.Close()

		file, entries, err := a.Info(args[0], user)
		if err != nil {
			return err
		}

		fmt.Printf("ID:           %s\n", file.ID)
		fmt.Printf("Name:         %s\n", file.OriginalName)
		fmt.Printf("Path:         %s\n", file.VirtualPath)
		fmt.Printf("Owner:        %s\n", file.OwnerID)
		fmt.Printf("Version:      %d\n", file.CurrentVersion)
		fmt.Printf("Hash:         %s\n", file.CurrentHash)
		if file.Size.Valid {
			fmt.Printf("Size:         %d\n", file.Size.Int64)
		}
		if file.ContentType.Valid {
			fmt.Printf("Content-Type: %s\n", file.ContentType.String)
		}
		if file.Description.Valid {
			fmt.Printf("Description:  %s\n", file.Description.String)
		}
		fmt.Printf("Created:      %s\n", file.CreatedAt.Format("2006-01-02 15:04:05"))
		for _, e := range entries {
			fmt.Printf("Meta:         %s=%s\n", e.Key, e.Value)
		}
		return nil
	},
}

// download command
var downloadCmd = &cobra.Command{
	Use:   "download FILE_ID",
	Short: "Download file content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		outPath, _ := cmd.Flags().GetString("out")
		versionFlag, _ := cmd.Flags().GetInt64("version")

		a, err := newApp("Download")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := unlockApp(a); err != nil {
			return err
		}

		var written string
		if cmd.Flags().Changed("version") {
			written, err = a.DownloadVersion(args[0], versionFlag, user, outPath)
		} else {
			written, err = a.Download(args[0], user, outPath)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", written)
		return nil
	},
}

// versions command
var versionsCmd = &cobra.Command{
	Use:   "versions FILE_ID",
	Short: "View a file's version history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("Versions")
		if err != nil {
			return err
		}
		defer a.Close()

		fv, err := a.Versions(args[0], user)
		if err != nil {
			return err
		}

		for _, v := range fv.Versions {
			current := ""
			if v.Version == fv.File.CurrentVersion {
				current = "  [current]"
			}
			fmt.Printf("v%d  %s  %s%s\n", v.Version, v.Hash[:12],
				v.CreatedAt.Format("2006-01-02 15:04:05"), current)
		}
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore FILE_ID VERSION",
	Short: "Make an older version current again",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		version, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version number: %s", args[1])
		}

		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.Restore(args[0], version, user)
		if err != nil {
			a.SetError()
			return err
		}

		fmt.Printf("Restored v%d (%s)\n", v.Version, v.Hash[:12])
		return nil
	},
}

// rm command
var rmCmd = &cobra.Command{
	Use:   "rm FILE_ID",
	Short: "Delete a file and all its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("Remove")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Remove(args[0], user); err != nil {
			a.SetError()
			return err
		}

		fmt.Println("Deleted.")
		return nil
	},
}

// describe command
var describeCmd = &cobra.Command{
	Use:   "describe FILE_ID DESCRIPTION",
	Short: "Update a file's description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("UpdateDescription")
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.UpdateDescription(args[0], user, args[1]); err != nil {
			a.SetError()
			return err
		}

		fmt.Println("Updated.")
		return nil
	},
}

// grant command
var grantCmd = &cobra.Command{
	Use:   "grant FILE_ID GRANTEE",
	Short: "Grant (or replace) another user's access to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		canRead, _ := cmd.Flags().GetBool("read")
		canWrite, _ := cmd.Flags().GetBool("write")
		canDelete, _ := cmd.Flags().GetBool("delete")

		a, err := newApp("Grant")
		if err != nil {
			return err
		}
		defer a.Close()

		grant, err := a.Grant(user, args[0], args[1], canRead, canWrite, canDelete)
		if err != nil {
			a.SetError()
			return err
		}

		fmt.Printf("%s on %s: read=%v write=%v delete=%v\n",
			grant.UserID, grant.FileID, grant.CanRead, grant.CanWrite, grant.CanDelete)
		return nil
	},
}

// check command
var checkCmd = &cobra.Command{
	Use:   "check FILE_ID CAPABILITY",
	Short: "Check whether you hold a capability on a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}

		a, err := newApp("Check")
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.Check(user, args[0], depot.Capability(args[1]))
		if err != nil {
			return err
		}

		fmt.Printf("%v\n", ok)
		return nil
	},
}

// dupes command
var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Find files with identical content",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}
		ofID, _ := cmd.Flags().GetString("of")

		a, err := newApp("Duplicates")
		if err != nil {
			return err
		}
		defer a.Close()

		if ofID != "" {
			dupes, err := a.DuplicatesOf(ofID, user)
			if err != nil {
				return err
			}
			if len(dupes) == 0 {
				fmt.Println("No duplicates.")
				return nil
			}
			for _, f := range dupes {
				fmt.Printf("%s  %s\n", f.ID, f.OriginalName)
			}
			return nil
		}

		groups, err := a.Duplicates(user)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No duplicates.")
			return nil
		}
		for _, g := range groups {
			fmt.Printf("%s:\n", g[0].CurrentHash)
			for _, f := range g {
				fmt.Printf("  %s  %s\n", f.ID, f.OriginalName)
			}
		}
		return nil
	},
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search your files",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := currentUser(cmd)
		if err != nil {
			return err
		}

		var p depot.SearchParams
		p.Query, _ = cmd.Flags().GetString("query")
		p.ContentType, _ = cmd.Flags().GetString("type")
		if cmd.Flags().Changed("min-size") {
			n, _ := cmd.Flags().GetInt64("min-size")
			p.MinSize = &n
		}
		if cmd.Flags().Changed("max-size") {
			n, _ := cmd.Flags().GetInt64("max-size")
			p.MaxSize = &n
		}
		if after, _ := cmd.Flags().GetString("after"); after != "" {
			t, err := time.Parse("2006-01-02", after)
			if err != nil {
				return fmt.Errorf("invalid --after date: %s", after)
			}
			p.StartDate = &t
		}
		if before, _ := cmd.Flags().GetString("before"); before != "" {
			t, err := time.Parse("2006-01-02", before)
			if err != nil {
				return fmt.Errorf("invalid --before date: %s", before)
			}
			p.EndDate = &t
		}

		a, err := newApp("Search")
		if err != nil {
			return err
		}
		defer a.Close()

		files, err := a.Search(user, p)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		for _, f := range files {
			fmt.Printf("%s  %s\n", f.ID, f.OriginalName)
		}
		return nil
	},
}

// meta command
var metaCmd = &cobra.Command{
	Use:   "meta FILE_ID",
	Short: "View file metadata entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Metadata")
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.Metadata(args[0])
		if err != nil {
			return err
		}

		for _, e := range entries {
			fmt.Printf("%s=%s\n", e.Key, e.Value)
		}
		return nil
	},
}

var metaSetCmd = &cobra.Command{
	Use:   "set FILE_ID KEY VALUE",
	Short: "Set a metadata entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetMetadata")
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.SetMetadata(args[0], args[1], args[2])
		if err != nil {
			a.SetError()
			return err
		}

		fmt.Printf("%s=%s\n", entry.Key, entry.Value)
		return nil
	},
}

var metaGetCmd = &cobra.Command{
	Use:   "get FILE_ID KEY",
	Short: "Get a metadata entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetMetadata")
		if err != nil {
			return err
		}
		defer a.Close()

		entry, err := a.MetadataValue(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Println(entry.Value)
		return nil
	},
}

var metaDelCmd = &cobra.Command{
	Use:   "del FILE_ID KEY",
	Short: "Delete a metadata entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteMetadata")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteMetadata(args[0], args[1]); err != nil {
			a.SetError()
			return err
		}

		fmt.Println("Deleted.")
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				d := op.FinishedAt.Time.Sub(op.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-18s  %s  %-10s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("user", "", "Acting user identity (defaults to DEPOT_USER)")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// meta subcommands
	metaCmd.AddCommand(metaSetCmd)
	metaCmd.AddCommand(metaGetCmd)
	metaCmd.AddCommand(metaDelCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().String("path", "", "Virtual path to file the upload under (default /)")
	uploadCmd.Flags().String("desc", "", "Description for the file")
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().Int64("version", 0, "Download a specific version instead of the current one")
	downloadCmd.Flags().String("out", "", "Output path (default: original name)")
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(grantCmd)
	grantCmd.Flags().Bool("read", false, "Allow reading the file")
	grantCmd.Flags().Bool("write", false, "Allow writing new versions")
	grantCmd.Flags().Bool("delete", false, "Allow deleting the file")
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dupesCmd)
	dupesCmd.Flags().String("of", "", "Find duplicates of a specific file")
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("query", "", "Substring to match in name or description")
	searchCmd.Flags().String("type", "", "Exact content type")
	searchCmd.Flags().Int64("min-size", 0, "Minimum size in bytes")
	searchCmd.Flags().Int64("max-size", 0, "Maximum size in bytes")
	searchCmd.Flags().String("after", "", "Only files created on or after this date (YYYY-MM-DD)")
	searchCmd.Flags().String("before", "", "Only files created on or before this date (YYYY-MM-DD)")
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
