package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "s0up4200/cinestream"

var (
	updateForce bool
	updateCheck bool
)

// updateCmd replaces the running binary with the latest release
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update cinestream to the latest release",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cinestream %s (built %s)\n", version, buildTime)
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateForce, "force", false, "update even when running a development build")
	updateCmd.Flags().BoolVar(&updateCheck, "check", false, "only check whether an update is available")
}

// isReleaseBuild reports whether v is a semantic version.
func isReleaseBuild(v string) bool {
	_, err := semver.ParseTolerant(v)
	return err == nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if !isReleaseBuild(version) && !updateForce {
		return fmt.Errorf("running development build %q; use --force to update anyway", version)
	}

	ctx := cmd.Context()
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for this platform")
	}

	if isReleaseBuild(version) && latest.LessOrEqual(version) {
		fmt.Fprintf(cmd.OutOrStdout(), "Already up to date (%s)\n", version)
		return nil
	}

	if updateCheck {
		fmt.Fprintf(cmd.OutOrStdout(), "Update available: %s -> %s\n", version, latest.Version())
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logger.Info().Str("from", version).Str("to", latest.Version()).Msg("Updating")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSuccess("Updated to "+latest.Version()))
	return nil
}
