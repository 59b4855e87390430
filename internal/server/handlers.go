package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"minecrate/internal/cache"
	"minecrate/internal/game"
	"minecrate/internal/game/mines"
	"minecrate/internal/game/upgrader"
	"minecrate/internal/repository"
	"minecrate/internal/service"
)

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	status := "ok"
	code := fiber.StatusOK
	checks := fiber.Map{}

	for name, hc := range map[string]HealthChecker{"database": s.db, "redis": s.cache} {
		if err := hc.HealthCheck(c.Context()); err != nil {
			checks[name] = "down"
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		} else {
			checks[name] = "ok"
		}
	}

	return c.Status(code).JSON(fiber.Map{"status": status, "checks": checks})
}

func (s *FiberServer) listGamesHandler(c *fiber.Ctx) error {
	type gameInfo struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}

	var out []gameInfo
	for _, g := range s.registry.List() {
		out = append(out, gameInfo{Name: g.Name(), Slug: g.Slug(), Description: g.Description()})
	}
	return c.JSON(fiber.Map{"games": out})
}

func (s *FiberServer) createProfileHandler(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username is required")
	}

	profile, err := s.accounts.CreateProfile(c.Context(), req.Username)
	if err != nil {
		return errorResponse(err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (s *FiberServer) getProfileHandler(c *fiber.Ctx) error {
	profile, err := s.accounts.GetProfile(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(profile)
}

func (s *FiberServer) getInventoryHandler(c *fiber.Ctx) error {
	items, err := s.accounts.GetInventory(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(fiber.Map{"items": items})
}

func (s *FiberServer) getTransactionsHandler(c *fiber.Ctx) error {
	txs, err := s.accounts.GetTransactions(c.Context(), c.Params("id"), c.QueryInt("limit", 50))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(fiber.Map{"transactions": txs})
}

func (s *FiberServer) leaderboardHandler(c *fiber.Ctx) error {
	profiles, err := s.accounts.GetLeaderboard(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(fiber.Map{"leaderboard": profiles})
}

func (s *FiberServer) getStatsHandler(c *fiber.Ctx) error {
	stats, err := s.accounts.GetStats(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(stats)
}

func (s *FiberServer) adjustBalanceHandler(c *fiber.Ctx) error {
	var req struct {
		Delta  int64  `json:"delta"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil || req.Delta == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "a non-zero delta is required")
	}

	profile, err := s.accounts.AdjustBalance(c.Context(), c.Params("id"), req.Delta, req.Reason)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(profile)
}

func (s *FiberServer) sellItemHandler(c *fiber.Ctx) error {
	profile, err := s.accounts.SellItem(c.Context(), c.Params("id"), c.Params("itemID"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(profile)
}

func (s *FiberServer) listCratesHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"crates": s.games.Crates()})
}

func (s *FiberServer) openCrateHandler(c *fiber.Ctx) error {
	var req struct {
		ProfileID string `json:"profile_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProfileID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "profile_id is required")
	}

	res, err := s.games.OpenCrate(c.Context(), req.ProfileID, c.Params("id"))
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(res)
}

func (s *FiberServer) minesStartHandler(c *fiber.Ctx) error {
	var req struct {
		ProfileID string `json:"profile_id"`
		Stake     int64  `json:"stake"`
		MineCount int    `json:"mine_count"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProfileID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "profile_id, stake and mine_count are required")
	}

	res, err := s.games.StartMines(c.Context(), req.ProfileID, req.Stake, req.MineCount)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(minesResponse(res))
}

func (s *FiberServer) minesRevealHandler(c *fiber.Ctx) error {
	var req struct {
		ProfileID string `json:"profile_id"`
		Row       int    `json:"row"`
		Col       int    `json:"col"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProfileID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "profile_id, row and col are required")
	}

	res, err := s.games.RevealMines(c.Context(), req.ProfileID, req.Row, req.Col)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(minesResponse(res))
}

func (s *FiberServer) minesCashoutHandler(c *fiber.Ctx) error {
	var req struct {
		ProfileID string `json:"profile_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProfileID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "profile_id is required")
	}

	res, err := s.games.CashOutMines(c.Context(), req.ProfileID)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(minesResponse(res))
}

func (s *FiberServer) upgraderMultipliersHandler(c *fiber.Ctx) error {
	type option struct {
		Multiplier float64 `json:"multiplier"`
		WinChance  int     `json:"win_chance"`
	}
	var out []option
	for _, m := range upgrader.Multipliers {
		out = append(out, option{Multiplier: m, WinChance: upgrader.WinChance(m)})
	}
	return c.JSON(fiber.Map{"multipliers": out})
}

func (s *FiberServer) upgraderAttemptHandler(c *fiber.Ctx) error {
	var req struct {
		ProfileID  string  `json:"profile_id"`
		ItemID     string  `json:"item_id"`
		Multiplier float64 `json:"multiplier"`
	}
	if err := c.BodyParser(&req); err != nil || req.ProfileID == "" || req.ItemID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "profile_id, item_id and multiplier are required")
	}

	res, err := s.games.AttemptUpgrade(c.Context(), req.ProfileID, req.ItemID, req.Multiplier)
	if err != nil {
		return errorResponse(err)
	}
	return c.JSON(res)
}

// minesResponse shapes a mines result for the client. Mine positions stay
// hidden until the session is terminal.
func minesResponse(res *service.MinesActionResult) fiber.Map {
	session := res.Session
	view := fiber.Map{
		"id":             session.ID,
		"stake":          session.Stake,
		"mine_count":     session.MineCount,
		"revealed":       session.Revealed,
		"status":         session.Status,
		"multiplier":     session.Multiplier,
		"payout":         session.Payout,
		"safe_remaining": session.SafeRemaining(),
	}
	if session.Status != mines.StatusActive {
		view["mines"] = session.Mines
	}

	out := fiber.Map{"session": view}
	if res.Reveal != nil {
		out["reveal"] = res.Reveal
	}
	if res.Balance >= 0 {
		out["balance"] = res.Balance
	}
	return out
}

// errorResponse maps service errors onto HTTP statuses.
func errorResponse(err error) error {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, repository.ErrInsufficientBalance):
		return fiber.NewError(fiber.StatusPaymentRequired, err.Error())
	case errors.Is(err, game.ErrInvalidConfiguration),
		errors.Is(err, service.ErrStakeTooHigh):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProfileNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, cache.ErrNoSession),
		errors.Is(err, service.ErrUnknownCrate):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrItemNotOwned):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSessionActive):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
