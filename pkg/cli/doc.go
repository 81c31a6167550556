/*
Package cli provides command-line utilities shared by the beacon command.

Output Formatting:

Command results can be rendered as plain text or JSON:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
