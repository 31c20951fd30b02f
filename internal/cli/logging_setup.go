package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/logging"
)

// setupLogging builds the logger from the logging section and stores it, with
// a trace id, in the command context.
func setupLogging(cmd *cobra.Command, st *state) {
	result := logging.NewLogger(st.cfg.Logging.ToLogging())
	st.logResult = &result
	st.logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	st.logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Str("trace_id", traceID).Msg("command started")
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(_ *cobra.Command, st *state) error {
	if st.logResult != nil {
		return st.logResult.Close()
	}
	return nil
}
