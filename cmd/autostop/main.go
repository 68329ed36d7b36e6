package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/autostop/autostop/internal/config"
	"github.com/autostop/autostop/internal/logging"
	"github.com/autostop/autostop/internal/models"
	"github.com/autostop/autostop/internal/version"
	"github.com/autostop/autostop/pkg/awsx"
	"github.com/autostop/autostop/pkg/discovery"
	"github.com/autostop/autostop/pkg/formatter"
	"github.com/autostop/autostop/pkg/retry"
	"github.com/autostop/autostop/pkg/shutdown"
	"github.com/autostop/autostop/pkg/utils"
)

var (
	regions     []string
	tagKey      string
	tagValue    string
	dryRun      bool
	hibernate   bool
	jsonLogs    bool
	verbose     bool
	quiet       bool
	showVersion bool
)

// startRegionSpinner creates and starts a spinner for the given region
func startRegionSpinner(region string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Scanning %s, %s for tagged instances ...", region, utils.GetRegionDescriptiveName(region))
	s.Start()
	return s
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "autostop",
		Short: "CLI tool to stop tagged EC2 instances",
		Long: `autostop finds running EC2 instances carrying a shutdown tag
and stops them, displaying the results in a table format.`,
		Run: func(cmd *cobra.Command, args []string) {
			// If version flag is set, print version info and exit
			if showVersion {
				fmt.Printf("autostop version %s\n", version.Get().String())
				return
			}

			logger := logging.Setup(jsonLogs, verbose, quiet)

			cfg := config.Default()
			cfg.TagKey = tagKey
			cfg.TagValue = tagValue
			cfg.Hibernate = hibernate

			// Use default region if none specified
			if len(regions) == 0 {
				regions = []string{utils.GetDefaultRegion()}
			}

			// Validate regions
			var validRegions []string
			for _, region := range regions {
				if utils.IsValidRegion(region) {
					validRegions = append(validRegions, region)
				} else {
					fmt.Printf("Warning: Skipping invalid region '%s'\n", region)
				}
			}

			if len(validRegions) == 0 {
				fmt.Println("No valid regions specified. Exiting.")
				return
			}

			runStart := time.Now()
			var summaries []formatter.RegionSummary
			failed := false

			// Regions are processed one at a time; stop calls mutate state
			for _, region := range validRegions {
				summary, err := processRegion(cmd.Context(), cfg, region, logger)
				if err != nil {
					fmt.Printf("Error in region %s: %v\n", region, err)
					failed = true
					continue
				}
				summaries = append(summaries, summary)
				if summary.Result.FailedStops > 0 {
					failed = true
				}
			}

			formatter.PrintRunSummary(os.Stdout, summaries, runStart, time.Since(runStart))

			if failed {
				os.Exit(1)
			}
		},
	}

	// Version flag
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")

	// Initialize default regions
	defaultRegions := []string{utils.GetDefaultRegion()}

	// Region flags (long and short forms)
	rootCmd.Flags().StringSliceVarP(&regions, "regions", "r", nil,
		fmt.Sprintf("AWS regions to check (comma separated, default: %s)", strings.Join(defaultRegions, ", ")))

	// Tag selection flags
	defaults := config.Default()
	rootCmd.Flags().StringVar(&tagKey, "tag-key", defaults.TagKey, "Tag key marking instances for shutdown")
	rootCmd.Flags().StringVar(&tagValue, "tag-value", defaults.TagValue, "Tag value marking instances for shutdown")

	// Behavior flags
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "List matching instances without stopping them")
	rootCmd.Flags().BoolVar(&hibernate, "hibernate", false, "Hibernate instances instead of a plain stop")

	// Logging flags
	rootCmd.Flags().BoolVar(&jsonLogs, "json", false, "Write logs as JSON")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// processRegion stops tagged instances in a single region
func processRegion(ctx context.Context, cfg config.Config, region string, logger zerolog.Logger) (formatter.RegionSummary, error) {
	scanStartTime := time.Now()

	// Start the spinner
	s := startRegionSpinner(region)

	retryCfg := retry.Config{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   cfg.RetryBaseDelay,
	}

	client, err := awsx.NewEC2Client(ctx, region, retryCfg, logger)
	if err != nil {
		s.Stop()
		return formatter.RegionSummary{}, err
	}
	client.SetHibernate(cfg.Hibernate)

	instances, err := discovery.NewService(client, logger).FindInstancesToStop(ctx, cfg.TagKey, cfg.TagValue)
	if err != nil {
		s.Stop()
		return formatter.RegionSummary{}, err
	}

	var result models.ShutdownResult
	outcomes := map[string]bool{}
	if dryRun {
		result = models.ShutdownResult{
			TotalInstances: len(instances),
			Errors:         []string{},
		}
	} else {
		recorder := &recordingStopper{inner: client, outcomes: outcomes}
		result = shutdown.NewOrchestrator(recorder, logger).ShutdownInstances(ctx, instances)
	}

	// Calculate scan duration
	scanDuration := time.Since(scanStartTime)

	// Set completion message with scan time and resource count
	s.FinalMSG = fmt.Sprintf("✓ [%d instances found] %s analyzed - Completed in %.2f seconds\n",
		len(instances), region, scanDuration.Seconds())
	s.Stop() // Stop the spinner when done

	// Display as table
	formatter.PrintShutdownTable(os.Stdout, instances, outcomes, dryRun)

	return formatter.RegionSummary{Region: region, Result: result}, nil
}

// recordingStopper tracks per-instance outcomes for table output
type recordingStopper struct {
	inner    shutdown.InstanceStopper
	outcomes map[string]bool
}

func (r *recordingStopper) StopInstance(ctx context.Context, instanceID string) bool {
	ok := r.inner.StopInstance(ctx, instanceID)
	r.outcomes[instanceID] = ok
	return ok
}
