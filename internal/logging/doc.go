// Package logger provides leveled console logging for lumen CLI commands.
// Each line carries a level tag and, when set, the command path as scope.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with colored prefixes.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags, only WarnfAlways output is shown. The long-running proxy
// server logs through zap instead (see internal/server).
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Unlocking wallet %s", keyID)
//	return log.ErrorfAndReturn("failed to load config: %v", err)
package logger
