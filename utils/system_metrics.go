package utils

import (
	"context"
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage returns the CPU usage percentage since the previous call.
// The first call after start-up reports usage since boot.
func GetCPUUsage(ctx context.Context) float64 {
	percentage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		slog.WarnContext(ctx, "Error getting CPU usage", slog.Any("error", err))
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}
