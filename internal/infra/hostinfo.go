package infra

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/hello_gate/internal/domain"
)

// DescribeHost collects OS details for startup diagnostics using gopsutil.
func DescribeHost(ctx context.Context) (domain.HostInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return domain.HostInfo{}, fmt.Errorf("failed to read host info: %w", err)
	}

	return domain.HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
	}, nil
}

// HostFields renders HostInfo as zap fields.
func HostFields(info domain.HostInfo) []zap.Field {
	return []zap.Field{
		zap.String("hostname", info.Hostname),
		zap.String("os", info.OS),
		zap.String("platform", info.Platform),
		zap.String("platform_version", info.PlatformVersion),
		zap.String("kernel_version", info.KernelVersion),
	}
}
