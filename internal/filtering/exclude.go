package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ranking"
)

type excludeFilter struct {
	disabled bool
	reason   string
	names    []string
}

// NewExclude creates a filter that removes documents listed by name in the config.
func NewExclude() Filter {
	return &excludeFilter{}
}

func (f *excludeFilter) Name() string { return "exclude" }

func (f *excludeFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFilter) Validate(cfg *Config) error {
	f.names = nil
	if cfg == nil {
		return nil
	}

	for _, name := range cfg.Exclude {
		if name = strings.TrimSpace(name); name != "" {
			f.names = append(f.names, name)
		}
	}
	return nil
}

func (f *excludeFilter) Apply(_ context.Context, deps Deps, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	if len(f.names) == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	excluded := r.Exclude(f.names)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding documents by name",
			zap.Strings("excluded_documents", excluded),
			zap.Int("documents_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(excluded), Left: r.Len()}, nil
}

func (f *excludeFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["documents"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
