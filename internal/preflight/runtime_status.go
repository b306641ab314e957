package preflight

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// ToolProbe reports the version banner of an external binary.
type ToolProbe struct {
	Command   string
	Available bool
	Version   string
}

// ProbeToolVersion runs "<binary> -version" and captures the version token
// from the first line of output (e.g. "6.1.1" from "ffmpeg version 6.1.1 ...").
func ProbeToolVersion(ctx context.Context, binary string) ToolProbe {
	binary = strings.TrimSpace(binary)
	probe := ToolProbe{Command: binary}
	if binary == "" {
		return probe
	}
	if _, err := exec.LookPath(binary); err != nil {
		return probe
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		return probe
	}
	probe.Available = true
	probe.Version = parseVersionBanner(output)
	return probe
}

func parseVersionBanner(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	if !scanner.Scan() {
		return "unknown"
	}
	fields := strings.Fields(scanner.Text())
	for i, field := range fields {
		if field == "version" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return "unknown"
}

// Detail renders a display-friendly summary for status output.
func (p ToolProbe) Detail() string {
	if !p.Available {
		return "not available"
	}
	return "version " + p.Version
}
