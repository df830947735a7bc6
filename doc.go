// Package logplus is a hierarchical, leveled logger on top of rs/zerolog
// that indents every message by the caller's call-stack depth and can log
// function entry and exit automatically.
//
// Key features
//   - One Logger per dotted name, created on first use by a Manager and
//     linked to its nearest ancestor; records propagate to the ancestors'
//     sinks
//   - Messages indented by call depth, so nested calls read as a tree
//   - LogEntry/LogExit for explicit tracing, and a process-wide trace hook
//     that logs entry and exit of every function calling Trace
//   - Infrastructure packages (this one, its stack inspection and zerolog)
//     are never auto traced unless SetInfrastructureLogging(true)
//   - File sinks on lumberjack, detached and closed by an ordered shutdown
//     so late log calls never hit a closed file
//
// Typical usage
//
//	shutdown := logplus.Setup()
//	defer shutdown.Run()
//
//	cfg := logplus.DefaultConfig()
//	cfg.Level = "debug"
//	cfg.AutoTrace = true
//	if err := logplus.Configure(cfg); err != nil {
//		panic(err)
//	}
//
//	var log = logplus.PackageLogger()
//
//	func square(x int) (y int) {
//		defer logplus.Trace().Exit(&y)
//		y = x * x
//		log.Debug("%d ** 2 = %d", x, y)
//		return y
//	}
package logplus
