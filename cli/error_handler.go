package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/carbon/errors"
	"github.com/grovetools/carbon/tui/theme"
)

// ErrorHandler turns structured errors into user-facing messages.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints err with a hint for its code and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	t := theme.DefaultTheme
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	var carbonErr *errors.CarbonError
	stderrors.As(err, &carbonErr)

	fmt.Fprintf(out, "%s %v\n", t.Error.Render(theme.IconError), err)
	if hint := hintFor(carbonErr); hint != "" {
		fmt.Fprintln(out, t.Muted.Render(hint))
	}

	if h.Verbose && carbonErr != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", carbonErr.ToJSON())
	}
	return err
}

func hintFor(err *errors.CarbonError) string {
	if err == nil {
		return ""
	}
	switch err.Code {
	case errors.ErrCodeConfigNotFound:
		return fmt.Sprintf("No configuration at %v. Run 'carbon config show' to see the defaults in use.", err.Details["path"])
	case errors.ErrCodeConfigInvalid:
		return "Check the file against 'carbon config schema'."
	case errors.ErrCodeConfigValidation:
		return fmt.Sprintf("Fix '%v' in carbon.yml.", err.Details["field"])
	case errors.ErrCodeRosterFetchFailed:
		return "The country list could not be fetched. Check source.api_key or FOOTPRINT_API_KEY and your network."
	case errors.ErrCodeUpstreamStatus:
		if err.Details["status"] == 401 || err.Details["status"] == 403 {
			return "The Footprint API rejected the credentials. Check source.username and source.api_key."
		}
		if err.Details["status"] == 429 {
			return "The Footprint API is rate limiting. Lower source.requests_per_second."
		}
		return "The Footprint API returned an error."
	case errors.ErrCodeCacheBackend:
		return "The cache could not be used. Try 'carbon cache clear' or check cache.path / cache.redis_url."
	case errors.ErrCodeCacheMiss:
		return "Nothing is cached yet. Run 'carbon fetch' to fill the cache."
	}
	return ""
}
