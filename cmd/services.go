package main

import (
	"context"

	"github.com/soundtable/soundtable/internal/models"
	"github.com/urfave/cli/v3"
)

// ServicesList lists every known service and whether it is configured.
func (r *Runner) ServicesList(ctx context.Context, cmd *cli.Command) error {
	type serviceStatus struct {
		Service    models.ServiceType `json:"service"`
		Configured bool               `json:"configured"`
	}

	statuses := []serviceStatus{}
	for _, serviceType := range models.ServiceTypes() {
		statuses = append(statuses, serviceStatus{
			Service:    serviceType,
			Configured: r.registry.Configured(serviceType),
		})
	}

	if cmd.Bool("json") {
		return r.writeJSON(statuses, true)
	}

	r.writePlainHeader("Services")
	for _, status := range statuses {
		marker := "✗ not configured"
		if status.Configured {
			marker = "✓ configured"
		}
		r.writePlain("%-10s %s\n", status.Service, marker)
	}
	return nil
}

// ServicesTest probes every configured service and reports the results.
func (r *Runner) ServicesTest(ctx context.Context, cmd *cli.Command) error {
	available := r.registry.Available()
	if len(available) == 0 {
		r.writePlain("No services configured. Run 'soundtable setup' and add credentials.\n")
		return nil
	}

	r.logger.Info("testing service connections", "services", len(available))
	results := r.registry.TestAll(ctx)

	r.writePlainHeader("Connection Tests")
	for _, serviceType := range available {
		result := results[serviceType]
		if result.OK {
			r.writePlain("✓ %-10s %s\n", serviceType, result.Message)
		} else {
			r.writePlain("✗ %-10s %s\n", serviceType, result.Message)
		}
	}
	return nil
}
