package upload

import (
	"context"
	"log/slog"

	"github.com/parishweb/parishadmin/internal/caption"
	"github.com/parishweb/parishadmin/internal/gateway"
)

// SuggestCaptions fills empty captions in parts using the configured
// suggester. Best-effort: a failed suggestion leaves the caption empty and is
// only logged, so an unreachable model never blocks an upload. Returns parts
// unchanged when suggester is nil.
func SuggestCaptions(ctx context.Context, suggester caption.Suggester, parts []gateway.ImagePart, logger *slog.Logger) []gateway.ImagePart {
	if suggester == nil {
		return parts
	}
	if logger == nil {
		logger = slog.Default()
	}

	for i := range parts {
		if parts[i].Caption != "" {
			continue
		}
		suggested, err := suggester.Suggest(ctx, parts[i].Data, parts[i].MimeType)
		if err != nil {
			logger.Warn("caption suggestion failed", "part", i, "error", err)
			continue
		}
		parts[i].Caption = suggested
	}
	return parts
}
