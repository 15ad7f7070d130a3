package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the cache is down; extraction still works.
	Degraded Status = "degraded"
	// Unhealthy indicates the taxonomy archive is unusable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names.
const (
	CheckArchive = "taxonomy_archive"
	CheckCache   = "fact_cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// Schemas is the number of .xsd files in the archive.
	Schemas int
}

// Service coordinates health checks.
type Service struct {
	archive ArchiveStatter
	cache   CachePinger
}

// New creates a Service. cache can be nil.
func New(archive ArchiveStatter, cache CachePinger) *Service {
	return &Service{archive: archive, cache: cache}
}

// Check runs health checks against all components.
// An archive without schemas counts as a failure.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	report := Report{Status: Healthy, Checks: checks}

	stats, err := s.archive.Stats(ctx)
	if err != nil || stats.Schemas == 0 {
		checks[CheckArchive] = CheckError
		report.Status = Unhealthy
	} else {
		checks[CheckArchive] = CheckOK
		report.Schemas = stats.Schemas
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks[CheckCache] = CheckError
			if report.Status == Healthy {
				report.Status = Degraded
			}
		} else {
			checks[CheckCache] = CheckOK
		}
	}

	return report
}
