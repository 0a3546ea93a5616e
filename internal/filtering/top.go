package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/ranking"
)

type topFilter struct {
	disabled bool
	reason   string
	limit    int
}

// NewTop creates a filter that keeps only the best N results.
func NewTop() Filter {
	return &topFilter{}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *topFilter) IsEnabled() bool { return !f.disabled }

func (f *topFilter) Validate(cfg *Config) error {
	f.limit = 0
	if cfg == nil {
		return nil
	}

	if cfg.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", cfg.Top)
	}

	f.limit = cfg.Top
	return nil
}

func (f *topFilter) Apply(_ context.Context, deps Deps, r *ranking.Results) (*ranking.Results, Step, error) {
	initial := r.Len()
	if f.limit == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	dropped := r.KeepTop(f.limit)
	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Debug("keeping top documents",
			zap.Int("top", f.limit),
			zap.Strings("excluded_documents", dropped),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *topFilter) Status() Status {
	details := map[string]string{}
	if f.limit > 0 {
		details["top"] = strconv.Itoa(f.limit)
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
