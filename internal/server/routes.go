package server

// registerRoutes registers all API routes.
func (s *FiberServer) registerRoutes() {
	s.App.Get("/health", s.healthHandler)

	api := s.App.Group("/api/v1")

	api.Get("/games", s.listGamesHandler)
	api.Get("/leaderboard", s.leaderboardHandler)

	// Profiles and inventory
	profiles := api.Group("/profiles")
	profiles.Post("/", s.createProfileHandler)
	profiles.Get("/:id", s.getProfileHandler)
	profiles.Get("/:id/stats", s.getStatsHandler)
	profiles.Get("/:id/inventory", s.getInventoryHandler)
	profiles.Get("/:id/transactions", s.getTransactionsHandler)
	profiles.Post("/:id/inventory/:itemID/sell", s.sellItemHandler)
	profiles.Post("/:id/adjust", s.adjustBalanceHandler)

	// Crate opening
	crates := api.Group("/crates")
	crates.Get("/", s.listCratesHandler)
	crates.Post("/:id/open", s.openCrateHandler)

	// Mines
	mines := api.Group("/mines")
	mines.Post("/start", s.minesStartHandler)
	mines.Post("/reveal", s.minesRevealHandler)
	mines.Post("/cashout", s.minesCashoutHandler)

	// Upgrader
	upgrader := api.Group("/upgrader")
	upgrader.Get("/multipliers", s.upgraderMultipliersHandler)
	upgrader.Post("/attempt", s.upgraderAttemptHandler)
}
