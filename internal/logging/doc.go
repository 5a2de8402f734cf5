// Package logging builds the structured logger shared by the CLI and the TUI.
//
// Log lines go to the console and, when a file is configured, are appended to
// it as well:
//
//	logger, closer, err := logging.New(logging.Options{
//	    Level:   "info",
//	    File:    settings.LogFile,
//	    Console: os.Stderr,
//	})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	logger.With("path", path).Warn("rule failed", "rule", name, "err", err)
package logging
