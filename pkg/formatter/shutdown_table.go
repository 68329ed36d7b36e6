package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/autostop/autostop/internal/models"
)

// RegionSummary pairs a region with the result of its shutdown pass
type RegionSummary struct {
	Region string
	Result models.ShutdownResult
}

// PrintShutdownTable prints a formatted table of the instances handled
// by one shutdown pass. outcomes maps instance IDs to whether the stop
// call succeeded; it is ignored for dry runs.
func PrintShutdownTable(writer io.Writer, instances []models.InstanceInfo, outcomes map[string]bool, dryRun bool) {
	if len(instances) == 0 {
		fmt.Fprintln(writer, "No instances to stop.")
		return
	}

	w := tabwriter.NewWriter(writer, 0, 8, 2, ' ', 0)

	// Print header
	fmt.Fprintln(w, "INSTANCE ID\tNAME\tTYPE\tAZ\tUPTIME\tRESULT")

	// Print each instance
	stopped := 0
	for _, instance := range instances {
		uptime := "-"
		if !instance.LaunchTime.IsZero() {
			uptime = humanize.Time(instance.LaunchTime)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			instance.InstanceID,
			getInstanceName(instance.Name),
			instance.InstanceType,
			instance.AvailabilityZone,
			uptime,
			stopResult(instance.InstanceID, outcomes, dryRun),
		)
		if outcomes[instance.InstanceID] {
			stopped++
		}
	}

	// Print totals without separator
	if dryRun {
		fmt.Fprintf(w, "Total:\t%d instance(s) would be stopped\n", len(instances))
	} else {
		fmt.Fprintf(w, "Total:\t%d/%d instance(s) stopped\n", stopped, len(instances))
	}

	w.Flush()
}

// PrintRunSummary prints per-region statistics for a whole run
func PrintRunSummary(writer io.Writer, summaries []RegionSummary, runStart time.Time, runDuration time.Duration) {
	if len(summaries) == 0 {
		return
	}

	printTimestamp(writer, runStart, runDuration)

	w := tabwriter.NewWriter(writer, 0, 8, 2, ' ', 0)

	// Print header
	fmt.Fprintln(w, "REGION\tFOUND\tSTOPPED\tFAILED")

	var totalFound, totalStopped, totalFailed int
	for _, summary := range summaries {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n",
			summary.Region,
			summary.Result.TotalInstances,
			summary.Result.SuccessfulStops,
			summary.Result.FailedStops,
		)
		totalFound += summary.Result.TotalInstances
		totalStopped += summary.Result.SuccessfulStops
		totalFailed += summary.Result.FailedStops
	}

	fmt.Fprintf(w, "Total:\t%d\t%d\t%d\n", totalFound, totalStopped, totalFailed)
	w.Flush()

	// Failed stops after the table, one line each
	for _, summary := range summaries {
		for _, msg := range summary.Result.Errors {
			fmt.Fprintf(writer, "Error in %s: %s\n", summary.Region, msg)
		}
	}
}

// getInstanceName returns a formatted instance name or <unnamed> if empty
func getInstanceName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return name
}

// stopResult formats the RESULT column for one instance
func stopResult(instanceID string, outcomes map[string]bool, dryRun bool) string {
	if dryRun {
		return "would stop"
	}
	if outcomes[instanceID] {
		return "stopped"
	}
	return "failed"
}

// printTimestamp prints the run timestamp and duration
func printTimestamp(writer io.Writer, runStart time.Time, runDuration time.Duration) {
	timeStr := runStart.Format("2006-01-02 15:04:05")
	durationStr := fmt.Sprintf("%.2fs", runDuration.Seconds())

	fmt.Fprintf(writer, "Run completed at %s (took %s)\n", timeStr, durationStr)
}
