// Reelmatch - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor runs the long-lived parts of reelmatch under a suture v4
supervisor tree.

	RootSupervisor ("reelmatch")
	├── APISupervisor ("api-layer")
	│   └── HTTPServerService
	└── MaintenanceSupervisor ("maintenance-layer")
	    └── CacheJanitorService (when poster checks are enabled)

A crashing janitor is restarted on its own without touching the HTTP server.
Restarts back off once FailureThreshold is crossed and failures decay at
FailureDecay per second.

Supervisor events are logged through logging.NewSlogLogger, so restarts and
panics appear in the same zerolog stream as request logs.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Server.ShutdownTimeout, logger))
	tree.AddMaintenanceService(services.NewCacheJanitorService(resolver, cfg.Poster.CleanupInterval, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = <-tree.ServeBackground(ctx)

Services live in the services subpackage.
*/
package supervisor
