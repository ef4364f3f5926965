package deviceinfo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/FluidXR/fetchdroid/internal/chipset"
	"github.com/FluidXR/fetchdroid/internal/runner"
)

const kbPerGB = 1024 * 1024

// cpuModelPrefixes are the /proc/cpuinfo keys that may carry a model name,
// depending on kernel and architecture.
var cpuModelPrefixes = []string{"model name", "Processor", "Hardware", "cpu model", "Model"}

func parseBootloader(verifiedBootState string) BootloaderState {
	switch strings.ToLower(strings.TrimSpace(verifiedBootState)) {
	case "orange":
		return Unlocked
	case "yellow":
		return PartiallyLocked
	case "green":
		return Locked
	default:
		return BootloaderUnknown
	}
}

// parseRooted interprets `which su`.
func parseRooted(output string) bool {
	output = strings.TrimSpace(output)
	return output != "" && !strings.Contains(output, "not found")
}

// parseUptime turns /proc/uptime ("35127.42 270342.10") into "9h 45m".
func parseUptime(output string) (string, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return "", runner.ParseError("/proc/uptime", output)
	}
	seconds, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || seconds < 0 {
		return "", runner.ParseError("/proc/uptime", output)
	}
	hours := int(seconds / 3600)
	minutes := int(math.Mod(seconds, 3600) / 60)
	return fmt.Sprintf("%dh %dm", hours, minutes), nil
}

// parseStorage reads `df /data`: a header line, then a row whose columns
// 1..3 are total, used and available KB.
func parseStorage(output string) (Storage, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) < 2 {
		return unknownStorage(), runner.ParseError("df /data", output)
	}
	cols := strings.Fields(lines[1])
	if len(cols) < 4 {
		return unknownStorage(), runner.ParseError("df /data", output)
	}
	var kb [3]int64
	for i := range kb {
		v, err := strconv.ParseInt(cols[i+1], 10, 64)
		if err != nil || v < 0 {
			return unknownStorage(), runner.ParseError("df /data", output)
		}
		kb[i] = v
	}
	s := Storage{
		TotalGB:     float64(kb[0]) / kbPerGB,
		UsedGB:      float64(kb[1]) / kbPerGB,
		AvailableGB: float64(kb[2]) / kbPerGB,
	}
	if kb[0] > 0 {
		s.Percent = int(math.Round(float64(kb[1]) / float64(kb[0]) * 100))
	}
	s.Total = formatGB(s.TotalGB)
	s.Used = formatGB(s.UsedGB)
	s.Available = formatGB(s.AvailableGB)
	return s, nil
}

func formatGB(gb float64) string {
	return fmt.Sprintf("%.1f GB", gb)
}

// countPackages counts the "package:" lines of `pm list packages`.
func countPackages(output string) int {
	n := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "package:") {
			n++
		}
	}
	return n
}

// cpuModelLine returns the value of the first model-ish line in /proc/cpuinfo.
func cpuModelLine(cpuinfo string) string {
	for _, line := range strings.Split(cpuinfo, "\n") {
		for _, prefix := range cpuModelPrefixes {
			if strings.HasPrefix(line, prefix) {
				_, value, _ := strings.Cut(line, ":")
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// chipsetSource picks the identifier to classify: the board platform,
// then ro.hardware, then ro.chipname, then the cpuinfo model line.
func chipsetSource(platform, hardware, chipname, cpuinfo string) string {
	for _, candidate := range []string{platform, hardware, chipname} {
		if candidate != "" && candidate != "unknown" {
			return candidate
		}
	}
	if line := cpuModelLine(cpuinfo); line != "" {
		return line
	}
	return chipset.UnknownSource
}

// countCores counts "processor" entries in /proc/cpuinfo.
func countCores(cpuinfo string) int {
	n := 0
	for _, line := range strings.Split(cpuinfo, "\n") {
		if strings.HasPrefix(line, "processor") {
			n++
		}
	}
	return n
}

// parseMaxFreq converts cpuinfo_max_freq (kHz) to GHz, truncated to whole MHz.
func parseMaxFreq(output string) (float64, error) {
	khz, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, runner.ParseError("cpuinfo_max_freq", output)
	}
	mhz := khz / 1000
	if mhz <= 0 {
		return 0, runner.ParseError("cpuinfo_max_freq", output)
	}
	return float64(mhz) / 1000, nil
}

// parseMemTotal reads the MemTotal line of /proc/meminfo as whole GB.
func parseMemTotal(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			break
		}
		return fmt.Sprintf("%d GB", kb/kbPerGB), nil
	}
	return "", runner.ParseError("/proc/meminfo", output)
}

// parseBattery finds "level:" in `dumpsys battery`.
func parseBattery(output string) (string, error) {
	for _, line := range strings.Split(output, "\n") {
		_, level, found := strings.Cut(line, "level:")
		if !found {
			continue
		}
		level = strings.TrimSpace(level)
		if level == "" {
			break
		}
		return level + "%", nil
	}
	return "", runner.ParseError("dumpsys battery", output)
}
