package observability

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports events through a structured logger. Cycle cuts are
// logged at info level, everything else at debug.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnProfileStart(_ context.Context, source, profile string) {
	h.logger.Debug("ordering profile", "source", source, "profile", profile)
}

func (h *LogHooks) OnProfileComplete(_ context.Context, source, profile string, subjects int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("profile failed", "source", source, "profile", profile, "err", err)
		return
	}
	h.logger.Debug("profile ordered", "source", source, "profile", profile,
		"subjects", subjects, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnSectionOrdered(_ context.Context, source, profile string, s Section) {
	h.logger.Debug("section ordered", "profile", profile, "section", s.Name,
		"select", s.Selector, "sort", s.Mode, "subjects", s.Subjects, "cuts", s.Cuts)
}

func (h *LogHooks) OnCycleCut(_ context.Context, source, profile string, c Cut) {
	h.logger.Info("cycle cut", "source", source, "profile", profile, "section", c.Section,
		"node", c.Node, "before", strings.Join(c.Pending, ", "))
}

func (h *LogHooks) OnOutput(_ context.Context, source, profile, target, status string, size int) {
	h.logger.Debug("output", "profile", profile, "target", target, "status", status, "bytes", size)
}
